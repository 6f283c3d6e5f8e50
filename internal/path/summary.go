package path

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds aggregate statistics for a built path.
type Summary struct {
	Points                int     `json:"points"`
	Segments              int     `json:"segments"`
	Length                float64 `json:"length"`
	MaxAbsCurvature       float64 `json:"max_abs_curvature"`
	MinCurvatureVelocity  float64 `json:"min_curvature_velocity"`
	MaxCurvatureVelocity  float64 `json:"max_curvature_velocity"`
	MeanCurvatureVelocity float64 `json:"mean_curvature_velocity"`
}

// Summarize computes track statistics. Length is the closed polyline length
// through all waypoints.
func Summarize(p *Path) Summary {
	n := p.Len()
	chords := make([]float64, n)
	absCurv := make([]float64, n)
	velocities := make([]float64, n)
	for i, pp := range p.points {
		next := p.points[(i+1)%n]
		chords[i] = next.Pose.Position.Sub(pp.Pose.Position).Norm()
		absCurv[i] = math.Abs(pp.Curvature)
		velocities[i] = pp.CurvatureVelocity()
	}

	return Summary{
		Points:                n,
		Segments:              len(p.segments),
		Length:                floats.Sum(chords),
		MaxAbsCurvature:       floats.Max(absCurv),
		MinCurvatureVelocity:  floats.Min(velocities),
		MaxCurvatureVelocity:  floats.Max(velocities),
		MeanCurvatureVelocity: stat.Mean(velocities, nil),
	}
}
