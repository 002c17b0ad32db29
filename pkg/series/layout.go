package series

import "math"

// LayoutParams describes the drawing area a chart is fitted into.
type LayoutParams struct {
	BaseWidth      float64
	Pad            float64
	InitialSpacing float64
	MinSpacing     float64
}

// Layout is the total chart width and the distance between two points.
type Layout struct {
	Width   float64 `json:"width"`
	Spacing float64 `json:"spacing"`
}

const (
	DefaultViewport       = 360
	DefaultPad            = 24
	DefaultInitialSpacing = 8
	DefaultMinSpacing     = 6
	minBaseWidth          = 280
)

// DefaultLayoutParams derives the layout for a viewport width in points.
func DefaultLayoutParams(viewport float64) LayoutParams {
	if viewport <= 0 {
		viewport = DefaultViewport
	}
	return LayoutParams{
		BaseWidth:      math.Max(viewport-DefaultPad, minBaseWidth),
		Pad:            DefaultPad,
		InitialSpacing: DefaultInitialSpacing,
		MinSpacing:     DefaultMinSpacing,
	}
}

// ComputeLayout spreads n points over the base width. When that would put
// points closer than MinSpacing the spacing is pinned to MinSpacing and the
// width grows so the chart scrolls instead.
func ComputeLayout(n int, p LayoutParams) Layout {
	if n <= 1 {
		return Layout{
			Width:   p.BaseWidth,
			Spacing: math.Max(p.MinSpacing, p.BaseWidth-p.Pad-p.InitialSpacing),
		}
	}
	inner := p.BaseWidth - p.Pad
	fill := math.Floor((inner - p.InitialSpacing) / float64(n-1))
	if fill >= p.MinSpacing {
		return Layout{Width: p.BaseWidth, Spacing: fill}
	}
	required := p.InitialSpacing + float64(n-1)*p.MinSpacing + p.Pad
	return Layout{Width: math.Max(p.BaseWidth, required), Spacing: p.MinSpacing}
}
