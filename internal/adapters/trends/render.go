package trends

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"mortalitycore/pkg/domain"
)

const (
	chartWidth  = 800
	chartHeight = 400
	chartMargin = 40
)

// Fixed trace palette; series beyond the palette wrap around. Matches the
// default charting layer colors so exported PNGs resemble the dashboard.
var tracePalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

// renderChartPNG draws the series list as a simple polyline chart (or bar
// marks for single-point series) on a white canvas with plain axes. The
// charting layer owns real rendering; this keeps exports self-contained.
func renderChartPNG(series []domain.Series) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to render")
	}

	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	axis := color.RGBA{R: 60, G: 60, B: 60, A: 255}
	for x := chartMargin; x <= chartWidth-chartMargin; x++ {
		img.Set(x, chartHeight-chartMargin, axis)
	}
	for y := chartMargin; y <= chartHeight-chartMargin; y++ {
		img.Set(chartMargin, y, axis)
	}

	maxValue := 0.0
	maxPoints := 0
	for _, s := range series {
		for _, v := range s.Values {
			if v > maxValue {
				maxValue = v
			}
		}
		if len(s.Values) > maxPoints {
			maxPoints = len(s.Values)
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	plotWidth := chartWidth - 2*chartMargin
	plotHeight := chartHeight - 2*chartMargin

	for i, s := range series {
		tint := tracePalette[i%len(tracePalette)]
		if len(s.Values) == 1 {
			// single-point aggregate: draw a bar per series
			barWidth := plotWidth / (len(series) + 1)
			x := chartMargin + (i+1)*barWidth
			h := int(s.Values[0] / maxValue * float64(plotHeight))
			for dx := 0; dx < barWidth/2; dx++ {
				for dy := 0; dy < h; dy++ {
					img.Set(x+dx, chartHeight-chartMargin-1-dy, tint)
				}
			}
			continue
		}
		denom := len(s.Values) - 1
		if maxPoints > 1 {
			denom = maxPoints - 1
		}
		prevX, prevY := -1, -1
		for j, v := range s.Values {
			x := chartMargin + j*plotWidth/denom
			y := chartHeight - chartMargin - int(v/maxValue*float64(plotHeight))
			if prevX >= 0 {
				drawLine(img, prevX, prevY, x, y, tint)
			}
			prevX, prevY = x, y
		}
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLine plots an integer line segment (Bresenham).
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, tint color.RGBA) {
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
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.Set(x0, y0, tint)
		}
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
