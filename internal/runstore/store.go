// Package runstore persists simulator results in SQLite.
package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/trackpace/internal/sim"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Run is one recorded simulator run.
type Run struct {
	ID          string
	Track       string
	Controller  string
	Contributor string
	StartedAt   time.Time
	Ticks       int
	Elapsed     time.Duration
	Laps        int
	LapTimes    []time.Duration
	Completed   bool
	MaxSpeed    float64
}

// FromResult converts a simulator result into a Run for track.
func FromResult(trackName string, startedAt time.Time, res sim.Result) Run {
	return Run{
		Track:       trackName,
		Controller:  res.Controller,
		Contributor: res.Contributor,
		StartedAt:   startedAt,
		Ticks:       res.Ticks,
		Elapsed:     res.Elapsed,
		Laps:        res.Laps,
		LapTimes:    append([]time.Duration(nil), res.LapTimes...),
		Completed:   res.Completed,
		MaxSpeed:    res.MaxSpeed,
	}
}

// Open opens (creating if needed) the database at path and migrates it to
// the latest schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
		PRAGMA journal_mode = WAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores r and its lap times, returning the run ID. An empty ID is
// filled with a new UUID.
func (s *Store) RecordRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, track, controller, contributor, started_at, ticks, elapsed_ns, laps, completed, max_speed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Track, r.Controller, r.Contributor, r.StartedAt.UnixNano(),
		r.Ticks, int64(r.Elapsed), r.Laps, r.Completed, r.MaxSpeed,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for i, lt := range r.LapTimes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO laps (run_id, lap, duration_ns) VALUES (?, ?, ?)`,
			r.ID, i+1, int64(lt),
		); err != nil {
			return "", fmt.Errorf("failed to insert lap %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return r.ID, nil
}

// Runs returns every run recorded on track, oldest first.
func (s *Store) Runs(ctx context.Context, trackName string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, track, controller, contributor, started_at, ticks, elapsed_ns, laps, completed, max_speed
		FROM runs WHERE track = ? ORDER BY started_at, id`, trackName)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			startedAt int64
			elapsed   int64
		)
		if err := rows.Scan(&r.ID, &r.Track, &r.Controller, &r.Contributor, &startedAt,
			&r.Ticks, &elapsed, &r.Laps, &r.Completed, &r.MaxSpeed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, startedAt).UTC()
		r.Elapsed = time.Duration(elapsed)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range runs {
		laps, err := s.lapTimes(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].LapTimes = laps
	}
	return runs, nil
}

func (s *Store) lapTimes(ctx context.Context, runID string) ([]time.Duration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT duration_ns FROM laps WHERE run_id = ? ORDER BY lap`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query laps for %s: %w", runID, err)
	}
	defer rows.Close()

	var laps []time.Duration
	for rows.Next() {
		var ns int64
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("failed to scan lap: %w", err)
		}
		laps = append(laps, time.Duration(ns))
	}
	return laps, rows.Err()
}

// BestLap returns the fastest recorded lap on track and the run it came
// from. ok is false when no laps exist.
func (s *Store) BestLap(ctx context.Context, trackName string) (runID string, best time.Duration, ok bool, err error) {
	var ns int64
	err = s.db.QueryRowContext(ctx, `
		SELECT l.run_id, l.duration_ns
		FROM laps l JOIN runs r ON r.id = l.run_id
		WHERE r.track = ?
		ORDER BY l.duration_ns, r.started_at
		LIMIT 1`, trackName).Scan(&runID, &ns)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to query best lap: %w", err)
	}
	return runID, time.Duration(ns), true, nil
}
