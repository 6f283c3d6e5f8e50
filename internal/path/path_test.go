package path

import (
	"math"
	"math/rand"
	"testing"

	"github.com/banshee-data/trackpace/internal/geom"
	"github.com/banshee-data/trackpace/internal/profile"
	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(xy ...float64) []r2.Point {
	out := make([]r2.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, r2.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func unitSquare() []r2.Point {
	return pts(0, 0, 100, 0, 100, 100, 0, 100)
}

// rectangle walks the perimeter of a w×h rectangle anticlockwise from the
// origin with the given spacing.
func rectangle(w, h, spacing float64) []r2.Point {
	var out []r2.Point
	for x := 0.0; x < w; x += spacing {
		out = append(out, r2.Point{X: x, Y: 0})
	}
	for y := 0.0; y < h; y += spacing {
		out = append(out, r2.Point{X: w, Y: y})
	}
	for x := w; x > 0; x -= spacing {
		out = append(out, r2.Point{X: x, Y: h})
	}
	for y := h; y > 0; y -= spacing {
		out = append(out, r2.Point{X: 0, Y: y})
	}
	return out
}

func TestBuildPoses_UnitSquare(t *testing.T) {
	poses := BuildPoses(unitSquare())
	require.Len(t, poses, 4)

	wantHeadings := []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2}
	for i, p := range poses {
		assert.InDelta(t, wantHeadings[i], p.Heading, 1e-12, "pose %d", i)
		assert.Equal(t, unitSquare()[i], p.Position)
	}
}

func TestBuildPoses_CoincidentPoints(t *testing.T) {
	poses := BuildPoses(pts(5, 5, 5, 5, 10, 5))
	assert.Equal(t, 0.0, poses[0].Heading)
}

func TestCurvature(t *testing.T) {
	base := geom.NewPose(0, 0, 0)

	t.Run("left turn is positive", func(t *testing.T) {
		c := Curvature(base, geom.NewPose(100, 0, math.Pi/2))
		assert.InDelta(t, (math.Pi/2)/100, c, 1e-12)
	})

	t.Run("right turn is negative", func(t *testing.T) {
		c := Curvature(base, geom.NewPose(100, 0, -math.Pi/2))
		assert.InDelta(t, -(math.Pi/2)/100, c, 1e-12)
	})

	t.Run("coincident poses", func(t *testing.T) {
		assert.Equal(t, 0.0, Curvature(base, geom.NewPose(0, 0, 1)))
	})

	t.Run("straight collinear poses", func(t *testing.T) {
		poses := BuildPoses(pts(0, 0, 100, 0, 200, 0, 300, 0, 400, 0, 400, 100))
		for i := 0; i < 3; i++ {
			assert.Equal(t, 0.0, Curvature(poses[i], poses[i+1]), "pose %d", i)
		}
	})
}

func TestCurvature_SignAntisymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a := geom.NewPose(rng.Float64()*1000, rng.Float64()*1000, (rng.Float64()*2-1)*math.Pi)
		b := geom.NewPose(rng.Float64()*1000, rng.Float64()*1000, (rng.Float64()*2-1)*math.Pi)
		if math.Abs(math.Abs(geom.NormalizeAngle(b.Heading-a.Heading))-math.Pi) < 1e-6 {
			continue // ±π is ambiguous
		}
		assert.InDelta(t, Curvature(a, b), -Curvature(b, a), 1e-12)
	}
}

func assertCoverage(t *testing.T, n int, segments []Segment) {
	t.Helper()
	seen := make([]int, n)
	for _, seg := range segments {
		require.Greater(t, seg.Len(), 0, "empty segment %+v", seg)
		for k := seg.Start; k < seg.End; k++ {
			require.Less(t, k, n)
			seen[k]++
		}
	}
	for i, c := range seen {
		assert.Equal(t, 1, c, "index %d covered %d times", i, c)
	}
}

func TestCluster_CyclicCoverage(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tracks := map[string][]r2.Point{
		"unit square": unitSquare(),
		"rectangle":   rectangle(2000, 800, 100),
		"triangle":    pts(0, 0, 10, 0, 5, 5),
	}
	for i := 0; i < 20; i++ {
		n := 3 + rng.Intn(60)
		random := make([]r2.Point, n)
		for k := range random {
			random[k] = r2.Point{X: rng.Float64() * 3000, Y: rng.Float64() * 3000}
		}
		tracks["random"+string(rune('A'+i))] = random
	}

	for name, track := range tracks {
		for _, threshold := range []float64{0, 50, 400, 1e9} {
			poses := BuildPoses(track)
			segments := Cluster(poses, threshold)
			assertCoverage(t, len(track), segments)

			points := BuildPathPoints(poses, threshold, profile.DefaultLimits())
			require.Len(t, points, len(track), "%s threshold %v", name, threshold)
			for i, pp := range points {
				assert.Equal(t, poses[i], pp.Pose, "%s index %d", name, i)
			}
		}
	}
}

func TestCluster_UnitSquareIsOneSegment(t *testing.T) {
	segments := Cluster(BuildPoses(unitSquare()), 400)
	require.Len(t, segments, 1)
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, 4, segments[0].End)
	assert.InDelta(t, math.Pi/(100*math.Sqrt2), segments[0].Curvature, 1e-12)
}

func TestCluster_BoundaryAtGap(t *testing.T) {
	track := pts(0, 0, 100, 0, 200, 0, 300, 0, 1000, 0, 1000, 500, 0, 500)
	segments := Cluster(BuildPoses(track), 400)

	want := []Segment{{Start: 0, End: 4}, {Start: 4, End: 5}, {Start: 5, End: 6}, {Start: 6, End: 7}}
	if diff := cmp.Diff(want, segments, cmpopts.IgnoreFields(Segment{}, "Curvature")); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}

	// (300,0) and (1000,0) are 700 apart and must not share a segment.
	for _, seg := range segments {
		assert.False(t, seg.Contains(3) && seg.Contains(4), "segment %+v spans the gap", seg)
	}
}

func TestCluster_LastSegmentClampedAtWrap(t *testing.T) {
	// The scan from (0,10) wraps onto (0,0) before stopping; the segment
	// must still end at the track length.
	track := pts(0, 0, 500, 0, 500, 500, 0, 10)
	segments := Cluster(BuildPoses(track), 50)

	want := []Segment{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 3}, {Start: 3, End: 4}}
	if diff := cmp.Diff(want, segments, cmpopts.IgnoreFields(Segment{}, "Curvature")); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestCluster_TieBreakFirstSeenWins(t *testing.T) {
	base := geom.NewPose(0, 0, 0)
	left := geom.NewPose(100, 0, 0.3)
	right := geom.NewPose(100, 0, -0.3)
	require.Equal(t, math.Abs(Curvature(base, left)), math.Abs(Curvature(base, right)))

	segs := Cluster([]geom.Pose{base, left, right}, 1000)
	require.Len(t, segs, 1)
	assert.Greater(t, segs[0].Curvature, 0.0)

	segs = Cluster([]geom.Pose{base, right, left}, 1000)
	require.Len(t, segs, 1)
	assert.Less(t, segs[0].Curvature, 0.0)
}

func TestCluster_DegenerateTrackTerminates(t *testing.T) {
	poses := BuildPoses(pts(1, 1, 1, 1, 1, 1))
	segments := Cluster(poses, 400)
	require.Len(t, segments, 1)
	assert.Equal(t, Segment{Start: 0, End: 3, Curvature: 0}, segments[0])
}

func TestBuildPathPoints_StraightSectionsHaveZeroCurvature(t *testing.T) {
	track := rectangle(2000, 2000, 100)
	limits := profile.DefaultLimits()
	poses := BuildPoses(track)
	points := BuildPathPoints(poses, 250, limits)
	n := len(poses)

	// A segment scans at most two poses ahead at this threshold; when all
	// three share a heading the segment sits wholly on one edge.
	zeroByHeading := map[float64]int{}
	for _, seg := range Cluster(poses, 250) {
		h := poses[seg.Start].Heading
		if poses[(seg.Start+1)%n].Heading != h || poses[(seg.Start+2)%n].Heading != h {
			continue
		}
		for k := seg.Start; k < seg.End; k++ {
			if points[k].Curvature != 0 {
				t.Errorf("index %d (heading %v): curvature = %g, want 0", k, h, points[k].Curvature)
			}
			if got := points[k].CurvatureVelocity(); got != limits.MaxVelocity {
				t.Errorf("index %d (heading %v): curvature velocity = %g, want %g", k, h, got, limits.MaxVelocity)
			}
			zeroByHeading[h]++
		}
	}

	for _, h := range []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2} {
		if zeroByHeading[h] == 0 {
			t.Errorf("no straight segments checked for heading %v", h)
		}
	}
	assert.NotEqual(t, 0.0, points[18].Curvature)
}

func TestCurvature_WestHeadingIsExactlyZero(t *testing.T) {
	a := geom.NewPose(500, 100, math.Pi)
	b := geom.NewPose(400, 100, math.Pi)
	if got := Curvature(a, b); got != 0 {
		t.Errorf("Curvature() = %g, want exactly 0", got)
	}
	if got := Curvature(geom.NewPose(0, 0, -math.Pi), geom.NewPose(-100, 0, math.Pi)); got != 0 {
		t.Errorf("Curvature(-π, π) = %g, want exactly 0", got)
	}
}

func TestSummarize_SharpCornersOnlyStraightSegments(t *testing.T) {
	// Corners fall exactly on segment starts at this spacing, so no scan
	// ever sees a heading change.
	p, err := New(rectangle(2000, 1000, 100), 400, profile.DefaultLimits())
	require.NoError(t, err)

	s := Summarize(p)
	if s.MaxAbsCurvature != 0 {
		t.Errorf("MaxAbsCurvature = %g, want 0", s.MaxAbsCurvature)
	}
	if s.MinCurvatureVelocity != 300 || s.MaxCurvatureVelocity != 300 || s.MeanCurvatureVelocity != 300 {
		t.Errorf("curvature velocity min/max/mean = %g/%g/%g, want 300", s.MinCurvatureVelocity, s.MaxCurvatureVelocity, s.MeanCurvatureVelocity)
	}
}

func TestNew(t *testing.T) {
	_, err := New(pts(0, 0, 1, 1), 400, profile.DefaultLimits())
	assert.ErrorIs(t, err, ErrTooFewWaypoints)

	_, err = New(unitSquare(), -1, profile.DefaultLimits())
	assert.Error(t, err)

	p, err := New(unitSquare(), 400, profile.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, p.At(1), p.At(5))
	assert.Equal(t, p.At(3), p.At(-1))
	assert.Len(t, p.Segments(), 1)

	// Returned slices are copies.
	points := p.Points()
	points[0].Curvature = 99
	assert.NotEqual(t, 99.0, p.At(0).Curvature)
}

func TestSummarize(t *testing.T) {
	p, err := New(unitSquare(), 400, profile.DefaultLimits())
	require.NoError(t, err)

	s := Summarize(p)
	wantV := 1.9 / (math.Pi / (100 * math.Sqrt2))
	assert.Equal(t, 4, s.Points)
	assert.Equal(t, 1, s.Segments)
	assert.InDelta(t, 400.0, s.Length, 1e-9)
	assert.InDelta(t, math.Pi/(100*math.Sqrt2), s.MaxAbsCurvature, 1e-12)
	assert.InDelta(t, wantV, s.MinCurvatureVelocity, 1e-9)
	assert.InDelta(t, wantV, s.MaxCurvatureVelocity, 1e-9)
	assert.InDelta(t, wantV, s.MeanCurvatureVelocity, 1e-9)
}
