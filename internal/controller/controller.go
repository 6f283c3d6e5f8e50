// Package controller turns a precomputed path into per-tick driving commands.
package controller

import (
	"errors"

	"github.com/banshee-data/trackpace/internal/geom"
	"github.com/golang/geo/r2"
)

// Discrete command values.
const (
	ThrottleAccelerate = 1
	ThrottleBrake      = -1

	SteerLeft  = 1
	SteerRight = -1
)

// ErrWaypointIndex is returned for a negative waypoint index.
var ErrWaypointIndex = errors.New("invalid waypoint index")

// Commands is one tick's output. Both fields are always -1 or +1.
type Commands struct {
	Throttle int `json:"throttle"`
	Steering int `json:"steering"`
}

// Controller is what a host simulation drives each tick.
type Controller interface {
	// Name is a human-readable controller name.
	Name() string

	// Contributor identifies the controller's author.
	Contributor() string

	// ComputeCommands decides throttle and steering for an agent at pose
	// moving with velocity, heading for the waypoint at nextWaypoint.
	// The host owns and advances nextWaypoint.
	ComputeCommands(nextWaypoint int, pose geom.Pose, velocity r2.Point) (Commands, error)
}

// Observation is the per-tick agent state supplied by the host.
type Observation struct {
	NextWaypoint int
	Pose         geom.Pose
	Velocity     r2.Point
}

// Decide runs c against a packaged observation.
func Decide(c Controller, obs Observation) (Commands, error) {
	return c.ComputeCommands(obs.NextWaypoint, obs.Pose, obs.Velocity)
}
