// Package sim is a minimal host for controllers: it integrates a point-mass
// agent around a path and owns waypoint progression and lap timing.
package sim

import (
	"time"

	"github.com/banshee-data/trackpace/internal/controller"
	"github.com/banshee-data/trackpace/internal/geom"
	"github.com/golang/geo/r2"
)

// Config holds the host physics and stopping rules.
type Config struct {
	TimeStep       time.Duration
	WaypointRadius float64
	Acceleration   float64 // speed gained per second at full throttle
	Deceleration   float64 // speed lost per second at full brake
	TurnRate       float64 // rad/s at full lock
	MaxTicks       int
	Laps           int // 0 runs until MaxTicks
}

// DefaultConfig returns the stock host settings.
func DefaultConfig() Config {
	return Config{
		TimeStep:       20 * time.Millisecond,
		WaypointRadius: 40,
		Acceleration:   100,
		Deceleration:   200,
		TurnRate:       3,
		MaxTicks:       20000,
		Laps:           1,
	}
}

// Agent is the simulated vehicle state.
type Agent struct {
	Pose         geom.Pose
	Speed        float64
	NextWaypoint int
}

// Velocity is the agent's world-frame velocity vector.
func (a Agent) Velocity() r2.Point {
	return geom.Direction(a.Pose.Heading).Mul(a.Speed)
}

// Step advances a by one tick under cmd. Speed never goes negative.
func Step(cfg Config, a Agent, cmd controller.Commands) Agent {
	dt := cfg.TimeStep.Seconds()

	if cmd.Throttle > 0 {
		a.Speed += cfg.Acceleration * dt
	} else {
		a.Speed -= cfg.Deceleration * dt
	}
	if a.Speed < 0 {
		a.Speed = 0
	}

	a.Pose.Heading = geom.NormalizeAngle(a.Pose.Heading + float64(cmd.Steering)*cfg.TurnRate*dt)
	a.Pose.Position = a.Pose.Position.Add(a.Velocity().Mul(dt))
	return a
}
