package track

import (
	"math"

	"github.com/golang/geo/r2"
)

const spacing = 100.0

// Square is a 1000×1000 square with 150-radius corners, driven anticlockwise.
func Square() []r2.Point {
	const (
		side   = 1000.0
		radius = 150.0
	)
	var out []r2.Point
	out = straight(out, r2.Point{X: radius, Y: 0}, r2.Point{X: side - radius, Y: 0})
	out = arc(out, r2.Point{X: side - radius, Y: radius}, radius, -math.Pi/2, math.Pi/2)
	out = straight(out, r2.Point{X: side, Y: radius}, r2.Point{X: side, Y: side - radius})
	out = arc(out, r2.Point{X: side - radius, Y: side - radius}, radius, 0, math.Pi/2)
	out = straight(out, r2.Point{X: side - radius, Y: side}, r2.Point{X: radius, Y: side})
	out = arc(out, r2.Point{X: radius, Y: side - radius}, radius, math.Pi/2, math.Pi/2)
	out = straight(out, r2.Point{X: 0, Y: side - radius}, r2.Point{X: 0, Y: radius})
	out = arc(out, r2.Point{X: radius, Y: radius}, radius, math.Pi, math.Pi/2)
	return out
}

// Oval joins two 2000-long straights with 500-radius semicircles.
func Oval() []r2.Point {
	const (
		length = 2000.0
		radius = 500.0
	)
	var out []r2.Point
	out = straight(out, r2.Point{X: 0, Y: 0}, r2.Point{X: length, Y: 0})
	out = arc(out, r2.Point{X: length, Y: radius}, radius, -math.Pi/2, math.Pi)
	out = straight(out, r2.Point{X: length, Y: 2 * radius}, r2.Point{X: 0, Y: 2 * radius})
	out = arc(out, r2.Point{X: 0, Y: radius}, radius, math.Pi/2, math.Pi)
	return out
}

// Hairpin has a tight 150-radius turn at one end and a sweeping 600-radius
// turn at the other, joined by a straight and a long diagonal.
func Hairpin() []r2.Point {
	const (
		length = 2400.0
		tight  = 150.0
		wide   = 600.0
	)
	var out []r2.Point
	out = straight(out, r2.Point{X: 0, Y: 0}, r2.Point{X: length, Y: 0})
	out = arc(out, r2.Point{X: length, Y: tight}, tight, -math.Pi/2, math.Pi)
	out = straight(out, r2.Point{X: length, Y: 2 * tight}, r2.Point{X: 0, Y: 2 * wide})
	out = arc(out, r2.Point{X: 0, Y: wide}, wide, math.Pi/2, math.Pi)
	return out
}

// straight appends points from a towards b at the fixed spacing, excluding b.
func straight(out []r2.Point, a, b r2.Point) []r2.Point {
	d := b.Sub(a)
	n := int(math.Ceil(d.Norm() / spacing))
	for i := 0; i < n; i++ {
		out = append(out, a.Add(d.Mul(float64(i)/float64(n))))
	}
	return out
}

// arc appends points on a circle around centre starting at angle start and
// sweeping anticlockwise by sweep radians, excluding the end point.
func arc(out []r2.Point, centre r2.Point, radius, start, sweep float64) []r2.Point {
	n := int(math.Ceil(radius * sweep / spacing))
	for i := 0; i < n; i++ {
		a := start + sweep*float64(i)/float64(n)
		out = append(out, r2.Point{X: centre.X + radius*math.Cos(a), Y: centre.Y + radius*math.Sin(a)})
	}
	return out
}
