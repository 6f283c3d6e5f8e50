package path

import (
	"errors"
	"fmt"

	"github.com/banshee-data/trackpace/internal/geom"
	"github.com/banshee-data/trackpace/internal/profile"
	"github.com/golang/geo/r2"
)

// MinWaypoints is the smallest track a Path can be built from.
const MinWaypoints = 3

// ErrTooFewWaypoints is returned when a track has fewer than MinWaypoints points.
var ErrTooFewWaypoints = errors.New("too few waypoints")

// PathPoint is one annotated waypoint: its pose, the representative curvature
// of its segment, and the track-wide speed limits.
type PathPoint struct {
	Pose      geom.Pose
	Curvature float64
	Limits    profile.Limits
}

// CurvatureVelocity is the cornering speed implied by the point's curvature.
func (pp PathPoint) CurvatureVelocity() float64 {
	return pp.Limits.CurvatureVelocity(pp.Curvature)
}

// Path is the immutable, index-aligned list of path points for one track.
type Path struct {
	points   []PathPoint
	segments []Segment
}

// New builds a Path from raw ordered waypoints.
func New(waypoints []r2.Point, clusteringDistance float64, limits profile.Limits) (*Path, error) {
	if len(waypoints) < MinWaypoints {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrTooFewWaypoints, len(waypoints), MinWaypoints)
	}
	if clusteringDistance < 0 {
		return nil, fmt.Errorf("clustering distance must be non-negative, got %f", clusteringDistance)
	}

	poses := BuildPoses(waypoints)
	segments := Cluster(poses, clusteringDistance)
	return &Path{points: annotate(poses, segments, limits), segments: segments}, nil
}

// Len returns the number of path points.
func (p *Path) Len() int { return len(p.points) }

// At returns the path point at index i, taken modulo Len.
func (p *Path) At(i int) PathPoint {
	n := len(p.points)
	return p.points[((i%n)+n)%n]
}

// Points returns a copy of all path points.
func (p *Path) Points() []PathPoint {
	out := make([]PathPoint, len(p.points))
	copy(out, p.points)
	return out
}

// Segments returns a copy of the clustering segments.
func (p *Path) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}
