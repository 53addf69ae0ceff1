package chart

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func sampleSeries() []Series {
	return []Series{
		{CityID: 2, Name: "Beta", Points: []Point{{1, 20}, {2, 22}, {3, 21}}},
		{CityID: 1, Name: "Alpha", Points: []Point{{1, 2}, {2, 3}, {3, 2.5}}},
	}
}

func TestRender_WritesPNGOfRequestedSize(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prices.png")

	if err := Render(sampleSeries(), 320, 200, out); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("expected 320x200, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRender_CreatesOutputDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "dir", "prices.png")

	if err := Render(sampleSeries(), 100, 100, out); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
}

func TestRender_RejectsDegenerateInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prices.png")

	if err := Render(nil, 100, 100, out); err == nil {
		t.Fatal("expected an error for empty history")
	}
	if err := Render(sampleSeries(), 0, 100, out); err == nil {
		t.Fatal("expected an error for a zero dimension")
	}
}

func TestRender_SinglePointSeries(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prices.png")
	series := []Series{{CityID: 1, Name: "Solo", Points: []Point{{1, 5}}}}

	if err := Render(series, 100, 100, out); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
}
