// Package track defines closed racing lines as ordered waypoint lists.
package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/geo/r2"
	"gopkg.in/yaml.v3"
)

// MinPoints is the smallest waypoint count that forms a closed track.
const MinPoints = 3

const maxFileSize = 4 * 1024 * 1024

var (
	ErrTooFewPoints  = errors.New("track needs at least 3 points")
	ErrNonFinite     = errors.New("track point is not finite")
	ErrUnknownTrack  = errors.New("unknown track")
	ErrUnknownFormat = errors.New("unsupported track file extension")
)

// Track is a closed loop: the last point connects back to the first.
type Track struct {
	Name   string
	Points []r2.Point
}

// New validates points and wraps them in a Track. The slice is copied.
func New(name string, points []r2.Point) (Track, error) {
	if len(points) < MinPoints {
		return Track{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return Track{}, fmt.Errorf("%w: index %d (%v, %v)", ErrNonFinite, i, p.X, p.Y)
		}
	}
	return Track{Name: name, Points: append([]r2.Point(nil), points...)}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// file is the on-disk layout shared by the JSON and YAML encodings.
type file struct {
	Name   string      `json:"name" yaml:"name"`
	Points [][]float64 `json:"points" yaml:"points"`
}

// Load reads a track from a .json, .yaml or .yml file. A missing name
// defaults to the file's base name.
func Load(path string) (Track, error) {
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return Track{}, fmt.Errorf("failed to stat track file: %w", err)
	}
	if info.Size() > maxFileSize {
		return Track{}, fmt.Errorf("track file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Track{}, fmt.Errorf("failed to read track file: %w", err)
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".json":
		err = json.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return Track{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return Track{}, fmt.Errorf("failed to parse track %s: %w", cleanPath, err)
	}

	points := make([]r2.Point, len(f.Points))
	for i, xy := range f.Points {
		if len(xy) != 2 {
			return Track{}, fmt.Errorf("track %s: point %d has %d coordinates, want 2", cleanPath, i, len(xy))
		}
		points[i] = r2.Point{X: xy[0], Y: xy[1]}
	}

	name := f.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(cleanPath), filepath.Ext(cleanPath))
	}
	return New(name, points)
}

// Resolve returns the built-in track called nameOrPath, or loads it from
// disk when no built-in matches.
func Resolve(nameOrPath string) (Track, error) {
	if t, err := Builtin(nameOrPath); err == nil {
		return t, nil
	}
	return Load(nameOrPath)
}

var builtins = map[string]func() []r2.Point{
	"square":  Square,
	"oval":    Oval,
	"hairpin": Hairpin,
}

// Builtin returns a named built-in track.
func Builtin(name string) (Track, error) {
	gen, ok := builtins[strings.ToLower(name)]
	if !ok {
		return Track{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownTrack, name, strings.Join(Names(), ", "))
	}
	return New(strings.ToLower(name), gen())
}

// Names lists the built-in tracks in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
