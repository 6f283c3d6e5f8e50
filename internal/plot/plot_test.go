package plot

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/trackpace/internal/path"
	"github.com/banshee-data/trackpace/internal/profile"
	"github.com/banshee-data/trackpace/internal/track"
)

func ovalPath(t *testing.T) *path.Path {
	t.Helper()
	tr, err := track.Builtin("oval")
	if err != nil {
		t.Fatalf("Builtin(oval): %v", err)
	}
	p, err := path.New(tr.Points, 400, profile.DefaultLimits())
	if err != nil {
		t.Fatalf("path.New: %v", err)
	}
	return p
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(ovalPath(t), "oval", &buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("missing PNG signature")
	}
}

func TestRenderPNG(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out", "oval.png")
	if err := RenderPNG(ovalPath(t), "oval", file); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("stat %s: %v", file, err)
	}
	if info.Size() == 0 {
		t.Error("PNG file is empty")
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(ovalPath(t), "oval profile", &buf); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"echarts", "oval profile", "curvature velocity"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func rgb(c color.Color) (r, g uint32) {
	r, g, _, _ = c.RGBA()
	return r, g
}

func TestSpeedColors(t *testing.T) {
	colors, err := speedColors([]float64{10, 300, 155})
	if err != nil {
		t.Fatalf("speedColors: %v", err)
	}
	if len(colors) != 3 {
		t.Fatalf("len(colors) = %d, want 3", len(colors))
	}
	if r, g := rgb(colors[0]); r <= g {
		t.Errorf("slowest colour r=%d g=%d, want red", r, g)
	}
	if r, g := rgb(colors[1]); g <= r {
		t.Errorf("fastest colour r=%d g=%d, want green", r, g)
	}

	flat, err := speedColors([]float64{300, 300})
	if err != nil {
		t.Fatalf("speedColors(flat): %v", err)
	}
	for i, c := range flat {
		if c != colors[1] {
			t.Errorf("flat[%d] = %v, want %v", i, c, colors[1])
		}
	}

	empty, err := speedColors(nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("speedColors(nil) = %v, %v", empty, err)
	}
}
