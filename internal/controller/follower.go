package controller

import (
	"fmt"

	"github.com/banshee-data/trackpace/internal/geom"
	"github.com/banshee-data/trackpace/internal/path"
	"github.com/banshee-data/trackpace/internal/profile"
	"github.com/golang/geo/r2"
)

const (
	followerName        = "reinzor"
	followerContributor = "Rein"
)

// PathFollower is a reflexive bang-bang controller: full throttle while
// slower than the profile's target speed for the next path point, full brake
// otherwise, and full lock towards whichever side the point lies on.
//
// It keeps no state between ticks and only reads the shared Path, so a
// single PathFollower may serve many agents concurrently.
type PathFollower struct {
	path     *path.Path
	profile  profile.Profile
	observer profile.Observer
}

// Option configures a PathFollower.
type Option func(*PathFollower)

// WithObserver reports every target-speed evaluation to o.
func WithObserver(o profile.Observer) Option {
	return func(f *PathFollower) { f.observer = o }
}

// NewPathFollower creates a follower for p using the braking model prof.
func NewPathFollower(p *path.Path, prof profile.Profile, opts ...Option) *PathFollower {
	f := &PathFollower{path: p, profile: prof}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name implements Controller.
func (f *PathFollower) Name() string { return followerName }

// Contributor implements Controller.
func (f *PathFollower) Contributor() string { return followerContributor }

// ComputeCommands implements Controller.
func (f *PathFollower) ComputeCommands(nextWaypoint int, pose geom.Pose, velocity r2.Point) (Commands, error) {
	if nextWaypoint < 0 {
		return Commands{}, fmt.Errorf("%w: %d", ErrWaypointIndex, nextWaypoint)
	}
	target := f.path.At(nextWaypoint)

	relative := pose.Inverse().Apply(target.Pose.Position)
	distance := relative.Norm()
	bearing := geom.Bearing(relative)

	targetSpeed, err := f.profile.TargetSpeed(target.Limits, target.Curvature, distance)
	if err != nil {
		return Commands{}, fmt.Errorf("target speed for waypoint %d: %w", nextWaypoint, err)
	}

	speed := velocity.Norm()
	if f.observer != nil {
		f.observer.Observe(profile.Sample{
			Waypoint:          nextWaypoint,
			Distance:          distance,
			Curvature:         target.Curvature,
			CurvatureVelocity: target.CurvatureVelocity(),
			TargetVelocity:    targetSpeed,
			Velocity:          speed,
		})
	}

	cmd := Commands{Throttle: ThrottleBrake, Steering: SteerRight}
	if speed < targetSpeed {
		cmd.Throttle = ThrottleAccelerate
	}
	if bearing > 0 {
		cmd.Steering = SteerLeft
	}
	return cmd, nil
}
