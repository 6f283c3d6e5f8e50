package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/banshee-data/trackpace/internal/controller"
	"github.com/banshee-data/trackpace/internal/monitoring"
	"github.com/banshee-data/trackpace/internal/profile"
	"github.com/banshee-data/trackpace/internal/runstore"
	"github.com/banshee-data/trackpace/internal/sim"
)

func runSim(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	trackName := fs.String("track", "oval", "built-in track name or path to a .json/.yaml track file")
	configPath := fs.String("config", "", "path to tuning JSON (defaults built in)")
	dbPath := fs.String("db", "", "record results to this sqlite database")
	agents := fs.Int("agents", 1, "number of agents sharing the path")
	laps := fs.Int("laps", -1, "laps to drive (overrides config when >= 0)")
	asJSON := fs.Bool("json", false, "print results as JSON")
	debug := fs.Bool("debug", false, "log every target speed evaluation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *agents < 1 {
		return fmt.Errorf("agents must be at least 1, got %d", *agents)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	tr, p, err := buildPath(*trackName, cfg)
	if err != nil {
		return err
	}

	simCfg := cfg.SimConfig()
	if *laps >= 0 {
		simCfg.Laps = *laps
	}

	var opts []controller.Option
	if *debug {
		opts = append(opts, controller.WithObserver(profile.LogfObserver(monitoring.Prefixed("follower"))))
	}
	follower := controller.NewPathFollower(p, cfg.Profile(), opts...)

	ctrls := make([]controller.Controller, *agents)
	for i := range ctrls {
		ctrls[i] = follower
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now().UTC()
	results, err := sim.RunAll(ctx, simCfg, p, ctrls...)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for i, res := range results {
			fmt.Fprintf(out, "agent %d (%s by %s): %d laps in %s, %d waypoints, max speed %.1f\n",
				i, res.Controller, res.Contributor, res.Laps, res.Elapsed, res.WaypointsReached, res.MaxSpeed)
			for lap, lt := range res.LapTimes {
				fmt.Fprintf(out, "  lap %d: %s\n", lap+1, lt)
			}
			if !res.Completed {
				fmt.Fprintf(out, "  stopped at tick limit %d\n", simCfg.MaxTicks)
			}
		}
	}

	if *dbPath == "" {
		return nil
	}
	store, err := runstore.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, res := range results {
		id, err := store.RecordRun(ctx, runstore.FromResult(tr.Name, started, res))
		if err != nil {
			return err
		}
		monitoring.Logf("recorded run %s", id)
	}
	return nil
}

func runRuns(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dbPath := fs.String("db", "trackpace.db", "path to sqlite database")
	trackName := fs.String("track", "oval", "track name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*dbPath); err != nil {
		return fmt.Errorf("run store %s: %w", *dbPath, err)
	}
	store, err := runstore.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	runs, err := store.Runs(ctx, *trackName)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %-10s laps=%d elapsed=%s max=%.1f\n",
			r.StartedAt.Format(time.RFC3339), r.ID, r.Controller, r.Laps, r.Elapsed, r.MaxSpeed)
	}

	runID, best, ok, err := store.BestLap(ctx, *trackName)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "best lap on %s: %s (run %s)\n", *trackName, best, runID)
	} else {
		fmt.Fprintf(out, "no laps recorded on %s\n", *trackName)
	}
	return nil
}
