package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/banshee-data/trackpace/internal/config"
	"github.com/banshee-data/trackpace/internal/monitoring"
	"github.com/banshee-data/trackpace/internal/path"
	"github.com/banshee-data/trackpace/internal/plot"
	"github.com/banshee-data/trackpace/internal/track"
)

func runProfile(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	trackName := fs.String("track", "oval", "built-in track name or path to a .json/.yaml track file")
	configPath := fs.String("config", "", "path to tuning JSON (defaults built in)")
	pngPath := fs.String("png", "", "write a PNG plot of the profile to this file")
	htmlPath := fs.String("html", "", "write an interactive HTML chart to this file")
	asJSON := fs.Bool("json", false, "print the summary as JSON instead of a table")
	debug := fs.Bool("debug", false, "log each segment")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	tr, p, err := buildPath(*trackName, cfg)
	if err != nil {
		return err
	}

	if *debug {
		for _, seg := range p.Segments() {
			monitoring.Logf("segment [%d,%d): curvature %.6f", seg.Start, seg.End, seg.Curvature)
		}
	}

	summary := path.Summarize(p)
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		if err := writeProfileTable(out, p); err != nil {
			return err
		}
		fmt.Fprintf(out, "\ntrack %s: %d points, %d segments, length %.1f\n", tr.Name, summary.Points, summary.Segments, summary.Length)
		fmt.Fprintf(out, "curvature velocity min %.1f / mean %.1f / max %.1f, max |curvature| %.6f\n",
			summary.MinCurvatureVelocity, summary.MeanCurvatureVelocity, summary.MaxCurvatureVelocity, summary.MaxAbsCurvature)
	}

	if *pngPath != "" {
		if err := plot.RenderPNG(p, tr.Name, *pngPath); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", *pngPath)
	}
	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *htmlPath, err)
		}
		defer f.Close()
		if err := plot.RenderHTML(p, tr.Name, f); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", *htmlPath)
	}
	return nil
}

func buildPath(nameOrPath string, cfg *config.TuningConfig) (track.Track, *path.Path, error) {
	tr, err := track.Resolve(nameOrPath)
	if err != nil {
		return track.Track{}, nil, err
	}
	p, err := path.New(tr.Points, cfg.GetClusteringDistance(), cfg.Limits())
	if err != nil {
		return track.Track{}, nil, fmt.Errorf("track %s: %w", tr.Name, err)
	}
	return tr, p, nil
}

func writeProfileTable(out io.Writer, p *path.Path) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tx\ty\theading\tcurvature\tvelocity\t")
	for i, pp := range p.Points() {
		fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%.3f\t%.6f\t%.1f\t\n",
			i, pp.Pose.Position.X, pp.Pose.Position.Y, pp.Pose.Heading, pp.Curvature, pp.CurvatureVelocity())
	}
	return tw.Flush()
}
