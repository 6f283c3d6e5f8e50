package path

import (
	"math"

	"github.com/banshee-data/trackpace/internal/geom"
	"github.com/banshee-data/trackpace/internal/profile"
)

// Segment is the half-open index range [Start, End) of poses sharing one
// representative curvature.
type Segment struct {
	Start     int
	End       int
	Curvature float64
}

// Len returns the number of poses in the segment.
func (s Segment) Len() int { return s.End - s.Start }

// Contains reports whether index i falls inside the segment.
func (s Segment) Contains(i int) bool { return i >= s.Start && i < s.End }

// Cluster partitions the cyclic pose sequence into contiguous segments.
//
// From each segment start the scan walks forward (wrapping) while the chord
// distance back to the start stays within clusteringDistance, keeping the
// curvature with the largest magnitude seen. The first pose beyond the
// threshold starts the next segment. A scan that wraps all the way round
// stops at its own start, so short or degenerate tracks terminate. The last
// segment is clamped at len(poses) so every index is covered exactly once.
func Cluster(poses []geom.Pose, clusteringDistance float64) []Segment {
	n := len(poses)
	var segments []Segment
	for i := 0; i < n; {
		base := poses[i]
		maxCurvature := 0.0
		j := i
		for j < i+n {
			j++
			target := poses[j%n]
			if base.Position.Sub(target.Position).Norm() > clusteringDistance {
				break
			}
			// Strictly greater: on exact ties the first pose seen wins.
			if c := Curvature(base, target); math.Abs(c) > math.Abs(maxCurvature) {
				maxCurvature = c
			}
		}
		segments = append(segments, Segment{Start: i, End: min(j, n), Curvature: maxCurvature})
		i = j
	}
	return segments
}

// BuildPathPoints clusters poses and tags every pose with its segment's
// curvature and the shared speed limits. The result is indexed like poses.
func BuildPathPoints(poses []geom.Pose, clusteringDistance float64, limits profile.Limits) []PathPoint {
	return annotate(poses, Cluster(poses, clusteringDistance), limits)
}

func annotate(poses []geom.Pose, segments []Segment, limits profile.Limits) []PathPoint {
	points := make([]PathPoint, 0, len(poses))
	for _, seg := range segments {
		for k := seg.Start; k < seg.End; k++ {
			points = append(points, PathPoint{
				Pose:      poses[k],
				Curvature: seg.Curvature,
				Limits:    limits,
			})
		}
	}
	return points
}
