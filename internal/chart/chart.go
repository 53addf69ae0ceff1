// Package chart renders equilibrium price history to a PNG file. Lines
// are drawn at double resolution and downsampled with a Lanczos filter
// so the output stays readable without a plotting dependency.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
)

// Point is one equilibrium observation.
type Point struct {
	Turn  uint64
	Price float64
}

// Series is the price history of one city.
type Series struct {
	CityID int
	Name   string
	Points []Point
}

const margin = 24

var palette = []color.RGBA{
	{R: 0xe0, G: 0x4f, B: 0x4f, A: 0xff},
	{R: 0x3f, G: 0x76, B: 0xcf, A: 0xff},
	{R: 0x3c, G: 0xa0, B: 0x55, A: 0xff},
	{R: 0xc8, G: 0x8a, B: 0x2e, A: 0xff},
	{R: 0x8a, G: 0x56, B: 0xc0, A: 0xff},
	{R: 0x3f, G: 0xa8, B: 0xa8, A: 0xff},
}

// Render draws all series into a width x height PNG at outPath. Cities
// are colored in ascending id order so re-renders stay stable.
func Render(series []Series, width, height int, outPath string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid chart size %dx%d", width, height)
	}
	var hasPoints bool
	for _, s := range series {
		if len(s.Points) > 0 {
			hasPoints = true
			break
		}
	}
	if !hasPoints {
		return fmt.Errorf("nothing to chart: no equilibrium history")
	}

	sort.Slice(series, func(i, j int) bool { return series[i].CityID < series[j].CityID })

	minTurn, maxTurn, minPrice, maxPrice := bounds(series)

	// Supersample 2x, then let Lanczos smooth the hard pixel lines.
	w2, h2 := width*2, height*2
	img := image.NewRGBA(image.Rect(0, 0, w2, h2))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	plot := image.Rect(margin, margin, w2-margin, h2-margin)
	drawAxes(img, plot)

	toX := func(turn uint64) int {
		if maxTurn == minTurn {
			return (plot.Min.X + plot.Max.X) / 2
		}
		f := float64(turn-minTurn) / float64(maxTurn-minTurn)
		return plot.Min.X + int(f*float64(plot.Dx()))
	}
	toY := func(price float64) int {
		if maxPrice == minPrice {
			return (plot.Min.Y + plot.Max.Y) / 2
		}
		f := (price - minPrice) / (maxPrice - minPrice)
		return plot.Max.Y - int(f*float64(plot.Dy()))
	}

	for i, s := range series {
		c := palette[i%len(palette)]
		for j := 1; j < len(s.Points); j++ {
			drawLine(img,
				toX(s.Points[j-1].Turn), toY(s.Points[j-1].Price),
				toX(s.Points[j].Turn), toY(s.Points[j].Price), c)
		}
		// A single observation still deserves a visible dot.
		if len(s.Points) == 1 {
			x, y := toX(s.Points[0].Turn), toY(s.Points[0].Price)
			drawLine(img, x-2, y, x+2, y, c)
			drawLine(img, x, y-2, x, y+2, c)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	if err := imaging.Save(resized, outPath); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

func bounds(series []Series) (minTurn, maxTurn uint64, minPrice, maxPrice float64) {
	minTurn, maxTurn = math.MaxUint64, 0
	minPrice, maxPrice = math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		for _, p := range s.Points {
			if p.Turn < minTurn {
				minTurn = p.Turn
			}
			if p.Turn > maxTurn {
				maxTurn = p.Turn
			}
			minPrice = math.Min(minPrice, p.Price)
			maxPrice = math.Max(maxPrice, p.Price)
		}
	}
	return minTurn, maxTurn, minPrice, maxPrice
}

var axisColor = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}

func drawAxes(img *image.RGBA, plot image.Rectangle) {
	drawLine(img, plot.Min.X, plot.Min.Y, plot.Min.X, plot.Max.Y, axisColor)
	drawLine(img, plot.Min.X, plot.Max.Y, plot.Max.X, plot.Max.Y, axisColor)
}

// drawLine is a plain Bresenham segment.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
