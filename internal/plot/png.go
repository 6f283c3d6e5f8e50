// Package plot renders a path's speed profile as a PNG or an interactive
// HTML chart.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/trackpace/internal/geom"
	"github.com/banshee-data/trackpace/internal/path"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// headingTick is the length of the heading marker drawn at each waypoint.
const headingTick = 40.0

// newProfilePlot builds the waypoint scatter, coloured from red (slow) to
// green (fast) by curvature velocity, with a short heading line per point.
func newProfilePlot(p *path.Path, title string) (*plot.Plot, error) {
	points := p.Points()
	speeds := make([]float64, len(points))
	xys := make(plotter.XYs, len(points))
	for i, pp := range points {
		speeds[i] = pp.CurvatureVelocity()
		xys[i] = plotter.XY{X: pp.Pose.Position.X, Y: pp.Pose.Position.Y}
	}
	colors, err := speedColors(speeds)
	if err != nil {
		return nil, err
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "X"
	pl.Y.Label.Text = "Y"
	pl.Add(plotter.NewGrid())

	for i, pp := range points {
		tip := pp.Pose.Position.Add(geom.Direction(pp.Pose.Heading).Mul(headingTick))
		line, err := plotter.NewLine(plotter.XYs{
			{X: pp.Pose.Position.X, Y: pp.Pose.Position.Y},
			{X: tip.X, Y: tip.Y},
		})
		if err != nil {
			return nil, fmt.Errorf("heading line %d: %w", i, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		pl.Add(line)
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("waypoint scatter: %w", err)
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: colors[i], Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
	}
	pl.Add(scatter)

	return pl, nil
}

// WritePNG renders p as a PNG image to w.
func WritePNG(p *path.Path, title string, w io.Writer) error {
	pl, err := newProfilePlot(p, title)
	if err != nil {
		return err
	}
	wt, err := pl.WriterTo(10*vg.Inch, 10*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// RenderPNG renders p to the PNG file at file, creating parent directories.
func RenderPNG(p *path.Path, title, file string) error {
	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	pl, err := newProfilePlot(p, title)
	if err != nil {
		return err
	}
	if err := pl.Save(10*vg.Inch, 10*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save %s: %w", file, err)
	}
	return nil
}

// speedColors maps each speed onto a green (fast) to red (slow) diverging
// ramp. A flat profile is all green.
func speedColors(speeds []float64) ([]color.Color, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range speeds {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}

	cm := moreland.SmoothGreenRed()
	cm.SetMin(0)
	cm.SetMax(1)
	cm.SetConvergePoint(0.5)

	colors := make([]color.Color, len(speeds))
	for i, s := range speeds {
		frac := 1.0
		if hi > lo {
			frac = (s - lo) / (hi - lo)
		}
		c, err := cm.At(1 - math.Max(0, math.Min(1, frac)))
		if err != nil {
			return nil, fmt.Errorf("colour for speed %g: %w", s, err)
		}
		colors[i] = c
	}
	return colors, nil
}
