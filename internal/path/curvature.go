package path

import (
	"math"

	"github.com/banshee-data/trackpace/internal/geom"
	"github.com/golang/geo/r2"
)

// BuildPoses orients each waypoint towards its successor. The sequence is
// cyclic: the last point faces the first. Coincident neighbours give heading 0.
func BuildPoses(points []r2.Point) []geom.Pose {
	n := len(points)
	poses := make([]geom.Pose, n)
	for i, p := range points {
		next := points[(i+1)%n]
		poses[i] = geom.Pose{
			Position: p,
			Heading:  math.Atan2(next.Y-p.Y, next.X-p.X),
		}
	}
	return poses
}

// Curvature approximates the path curvature between two poses as the turn
// angle per unit chord length. The sign follows the heading change: positive
// for left turns. Coincident poses have curvature 0.
// Equal headings give exactly 0, including headings of ±π.
func Curvature(base, target geom.Pose) float64 {
	distance := target.Position.Sub(base.Position).Norm()
	if distance == 0 {
		return 0
	}
	return geom.NormalizeAngle(target.Heading-base.Heading) / distance
}
