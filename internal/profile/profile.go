// Package profile converts curvature and remaining distance into target speeds.
//
// The model is constant-deceleration braking: from speed v an agent braking at
// rate a covers v²/(2a) before it stops, so the highest speed from which it can
// still reach a floor speed within distance d is sqrt(2ad) above that floor.
// Distances are in track units, speeds in track units per second.
package profile

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidDistance is returned for negative (or NaN) distances. It always
// indicates a caller bug; nothing inside this package recovers from it.
var ErrInvalidDistance = errors.New("invalid distance")

func checkDistance(distance float64) error {
	if distance < 0 || math.IsNaN(distance) {
		return fmt.Errorf("%w: %g cannot be negative", ErrInvalidDistance, distance)
	}
	return nil
}

// BrakingSpeed returns the highest speed from which an agent decelerating at
// acceleration can slow to velocityFloor within distance, after first
// covering distanceOffset without braking.
func BrakingSpeed(distance, velocityFloor, acceleration, distanceOffset float64) (float64, error) {
	if err := checkDistance(distance); err != nil {
		return 0, err
	}
	d := math.Max(0, distance-distanceOffset)
	return math.Sqrt(2*acceleration*d) + velocityFloor, nil
}

// BrakingSpeedWithDelay is BrakingSpeed with a reaction time (seconds) during
// which the agent keeps its speed before braking engages. With reactionTime
// 0 it equals BrakingSpeed.
func BrakingSpeedWithDelay(distance, velocityFloor, acceleration, distanceOffset, reactionTime float64) (float64, error) {
	if err := checkDistance(distance); err != nil {
		return 0, err
	}
	d := math.Max(0, distance-distanceOffset)
	at := acceleration * reactionTime
	return math.Sqrt(at*at+2*acceleration*d) - at + velocityFloor, nil
}

// Limits are the track-wide speed limits copied into every path point.
type Limits struct {
	MaxVelocity              float64
	CurvatureVelocityScaling float64
}

// DefaultLimits returns the production limits.
func DefaultLimits() Limits {
	return Limits{
		MaxVelocity:              300,
		CurvatureVelocityScaling: 1.9,
	}
}

// CurvatureVelocity is the safe cornering speed for curvature. Straight
// sections (curvature exactly 0) are limited only by MaxVelocity.
func (l Limits) CurvatureVelocity(curvature float64) float64 {
	if curvature == 0 {
		return l.MaxVelocity
	}
	return l.CurvatureVelocityScaling / math.Abs(curvature)
}

// Profile holds the braking model parameters.
type Profile struct {
	Acceleration   float64       // braking deceleration, units/s²
	DistanceOffset float64       // dead-band before braking must start
	ReactionTime   time.Duration // actuation lag; 0 disables the delay term
}

// DefaultProfile returns the production braking model.
func DefaultProfile() Profile {
	return Profile{
		Acceleration:   80,
		DistanceOffset: 50,
	}
}

// TargetSpeed is the speed to hold while distance away from a point with the
// given curvature: the braking speed floored at the curvature velocity and
// capped at the track limit.
func (p Profile) TargetSpeed(limits Limits, curvature, distance float64) (float64, error) {
	floor := limits.CurvatureVelocity(curvature)

	var (
		v   float64
		err error
	)
	if p.ReactionTime == 0 {
		v, err = BrakingSpeed(distance, floor, p.Acceleration, p.DistanceOffset)
	} else {
		v, err = BrakingSpeedWithDelay(distance, floor, p.Acceleration, p.DistanceOffset, p.ReactionTime.Seconds())
	}
	if err != nil {
		return 0, err
	}
	return math.Min(limits.MaxVelocity, v), nil
}
