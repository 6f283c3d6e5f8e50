// Package geom provides planar rigid-body poses for track geometry.
//
// Coordinate convention: X right, Y up, headings in radians measured
// counter-clockwise from +X. A positive bearing therefore means "to the left".
package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Pose is a position plus heading. The zero value is the identity transform.
type Pose struct {
	Position r2.Point
	Heading  float64 // radians
}

// NewPose builds a pose from raw coordinates.
func NewPose(x, y, heading float64) Pose {
	return Pose{Position: r2.Point{X: x, Y: y}, Heading: heading}
}

// Rotate rotates v counter-clockwise by angle radians.
func Rotate(v r2.Point, angle float64) r2.Point {
	sin, cos := math.Sincos(angle)
	return r2.Point{
		X: cos*v.X - sin*v.Y,
		Y: sin*v.X + cos*v.Y,
	}
}

// Apply maps q from this pose's frame into the parent frame.
func (p Pose) Apply(q r2.Point) r2.Point {
	return Rotate(q, p.Heading).Add(p.Position)
}

// Inverse returns the pose that maps parent-frame points into this pose's frame.
func (p Pose) Inverse() Pose {
	return Pose{
		Position: Rotate(p.Position, -p.Heading).Mul(-1),
		Heading:  NormalizeAngle(-p.Heading),
	}
}

// Compose returns p*q: q expressed in p's frame, mapped to the parent frame.
func (p Pose) Compose(q Pose) Pose {
	return Pose{
		Position: p.Apply(q.Position),
		Heading:  NormalizeAngle(p.Heading + q.Heading),
	}
}

// Relative expresses target in the frame of base.
func Relative(base, target Pose) Pose {
	return base.Inverse().Compose(target)
}

// Direction returns the unit vector along heading.
func Direction(heading float64) r2.Point {
	sin, cos := math.Sincos(heading)
	return r2.Point{X: cos, Y: sin}
}

// NormalizeAngle wraps a into (-π, π]. Whole turns map to exactly 0.
func NormalizeAngle(a float64) float64 {
	wrapped := math.Remainder(a, 2*math.Pi)
	if wrapped == -math.Pi {
		return math.Pi
	}
	return wrapped
}

// Bearing is the polar angle of v. The zero vector has bearing 0.
func Bearing(v r2.Point) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}
