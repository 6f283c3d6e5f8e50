package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/trackpace/internal/controller"
	"github.com/banshee-data/trackpace/internal/monitoring"
	"github.com/banshee-data/trackpace/internal/path"
	"golang.org/x/sync/errgroup"
)

var logf = monitoring.Prefixed("sim")

// ErrInvalidConfig is returned when Run is given unusable host settings.
var ErrInvalidConfig = errors.New("invalid sim config")

// Result summarises one controller's run.
type Result struct {
	Controller       string          `json:"controller"`
	Contributor      string          `json:"contributor"`
	Ticks            int             `json:"ticks"`
	Elapsed          time.Duration   `json:"elapsed"`
	Laps             int             `json:"laps"`
	LapTimes         []time.Duration `json:"lap_times"`
	WaypointsReached int             `json:"waypoints_reached"`
	MaxSpeed         float64         `json:"max_speed"`
	Completed        bool            `json:"completed"`
}

// BestLap returns the fastest lap, or false if none was completed.
func (r Result) BestLap() (time.Duration, bool) {
	if len(r.LapTimes) == 0 {
		return 0, false
	}
	best := r.LapTimes[0]
	for _, lt := range r.LapTimes[1:] {
		if lt < best {
			best = lt
		}
	}
	return best, true
}

func (c Config) validate() error {
	switch {
	case c.TimeStep <= 0:
		return fmt.Errorf("%w: time step %s", ErrInvalidConfig, c.TimeStep)
	case c.MaxTicks <= 0:
		return fmt.Errorf("%w: max ticks %d", ErrInvalidConfig, c.MaxTicks)
	case c.Laps < 0:
		return fmt.Errorf("%w: laps %d", ErrInvalidConfig, c.Laps)
	case c.WaypointRadius < 0:
		return fmt.Errorf("%w: waypoint radius %g", ErrInvalidConfig, c.WaypointRadius)
	}
	return nil
}

// Start places an agent on waypoint 0, facing along the path, heading for
// waypoint 1.
func Start(p *path.Path) Agent {
	return Agent{Pose: p.At(0).Pose, NextWaypoint: 1 % p.Len()}
}

// Run drives ctrl around p until the configured laps are done or MaxTicks is
// reached. ctx is checked between ticks; a cancelled run returns the partial
// result with ctx's error.
func Run(ctx context.Context, cfg Config, p *path.Path, ctrl controller.Controller) (Result, error) {
	res := Result{Controller: ctrl.Name(), Contributor: ctrl.Contributor()}
	if err := cfg.validate(); err != nil {
		return res, err
	}

	agent := Start(p)
	var lapStart time.Duration

	for res.Ticks < cfg.MaxTicks {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		cmd, err := ctrl.ComputeCommands(agent.NextWaypoint, agent.Pose, agent.Velocity())
		if err != nil {
			return res, fmt.Errorf("tick %d: %w", res.Ticks, err)
		}
		agent = Step(cfg, agent, cmd)
		res.Ticks++
		res.Elapsed += cfg.TimeStep
		if agent.Speed > res.MaxSpeed {
			res.MaxSpeed = agent.Speed
		}

		// Several waypoints can fall inside the radius at once; a full
		// cycle per tick is the most that can be claimed.
		for i := 0; i < p.Len(); i++ {
			target := p.At(agent.NextWaypoint).Pose.Position
			if agent.Pose.Position.Sub(target).Norm() > cfg.WaypointRadius {
				break
			}
			reached := agent.NextWaypoint
			agent.NextWaypoint = (agent.NextWaypoint + 1) % p.Len()
			res.WaypointsReached++

			if reached == 0 {
				res.Laps++
				res.LapTimes = append(res.LapTimes, res.Elapsed-lapStart)
				lapStart = res.Elapsed
				logf("%s: lap %d in %s", res.Controller, res.Laps, res.LapTimes[len(res.LapTimes)-1])
				if cfg.Laps > 0 && res.Laps >= cfg.Laps {
					res.Completed = true
					return res, nil
				}
			}
		}
	}

	logf("%s: stopped after %d ticks with %d laps", res.Controller, res.Ticks, res.Laps)
	return res, nil
}

// RunAll runs every controller on p concurrently. Results are in the same
// order as ctrls. The first error cancels the remaining runs.
func RunAll(ctx context.Context, cfg Config, p *path.Path, ctrls ...controller.Controller) ([]Result, error) {
	results := make([]Result, len(ctrls))
	g, gCtx := errgroup.WithContext(ctx)
	for i, ctrl := range ctrls {
		i, ctrl := i, ctrl
		g.Go(func() error {
			res, err := Run(gCtx, cfg, p, ctrl)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s: %w", ctrl.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
