// Package render draws a chart view model to PNG with go-chart.
package render

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"allgecare/internal/domain/entity"
)

// ErrNothingToDraw is returned for a chart without points.
var ErrNothingToDraw = errors.New("chart has no points")

const (
	DefaultHeight = 260
	minWidth      = 280
)

// PNG renders c at its layout width. Points are placed by index so the
// spacing matches the client side chart.
func PNG(c *entity.Chart, height int) ([]byte, error) {
	if c == nil || c.Empty || len(c.Primary) == 0 {
		return nil, ErrNothingToDraw
	}
	if height <= 0 {
		height = DefaultHeight
	}
	width := int(math.Ceil(c.Layout.Width))
	if width < minWidth {
		width = minWidth
	}

	pal := c.Palette
	dot := 3.0
	if c.HideDots {
		dot = 0
	}

	primaryColor, secondaryColor := colorFor(pal, c.Metric)
	series := []chart.Series{lineSeries(c.Primary, primaryColor, dot)}
	if len(c.Secondary) > 0 {
		series = append(series, lineSeries(c.Secondary, secondaryColor, dot))
	}

	minY, maxY := bounds(c.Primary, c.Secondary)
	lo, hi := niceBounds(minY, maxY)
	n := len(c.Primary)

	ch := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: hexColor(pal.Card),
			Padding:   chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28},
		},
		Canvas: chart.Style{FillColor: hexColor(pal.Card)},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: -0.5, Max: math.Max(float64(n)-0.5, 1)},
			Ticks: xTicks(c.Labels),
			Style: chart.Style{FontColor: hexColor(pal.Label), StrokeColor: hexColor(pal.Grid)},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				f, _ := v.(float64)
				return strconv.FormatFloat(f, 'f', 1, 64) + c.YSuffix
			},
			Style:          chart.Style{FontColor: hexColor(pal.Label), StrokeColor: hexColor(pal.Grid)},
			GridMajorStyle: chart.Style{StrokeColor: hexColor(pal.Grid), StrokeWidth: 1},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func colorFor(pal entity.Palette, m entity.Metric) (drawing.Color, drawing.Color) {
	if m == entity.MetricPH {
		return hexColor(pal.PH), hexColor(pal.Temp)
	}
	return hexColor(pal.Temp), hexColor(pal.PH)
}

// lineSeries plots points at x = index. A single point is doubled because
// go-chart needs a non-zero x span.
func lineSeries(points []entity.ChartPoint, col drawing.Color, dot float64) chart.ContinuousSeries {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Value
	}
	if len(points) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}
	return chart.ContinuousSeries{
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: col,
			DotWidth:    dot,
			DotColor:    col,
		},
	}
}

func xTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, 8)
	for i, l := range labels {
		if l == "" {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	return ticks
}

func bounds(sets ...[]entity.ChartPoint) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, set := range sets {
		for _, p := range set {
			lo = math.Min(lo, p.Value)
			hi = math.Max(hi, p.Value)
		}
	}
	return lo, hi
}

// niceBounds pads [min, max] by 5% and rounds outward to the span magnitude.
func niceBounds(min, max float64) (float64, float64) {
	if math.IsInf(min, 0) || math.IsInf(max, 0) {
		return 0, 1
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	a, b := min-pad, max+pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if mag > 0 && !math.IsInf(mag, 0) {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// hexColor accepts #RRGGBB and #RRGGBBAA.
func hexColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err == nil {
			return drawing.ColorFromHex(hex[:6]).WithAlpha(uint8(a))
		}
		hex = hex[:6]
	}
	return drawing.ColorFromHex(hex)
}
