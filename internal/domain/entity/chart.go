package entity

import (
	"strings"
	"time"

	"allgecare/pkg/series"
)

// Metric selects which reading drives the chart.
type Metric string

const (
	MetricTemp Metric = "temp"
	MetricPH   Metric = "ph"
	MetricBoth Metric = "both"
)

func ParseMetric(s string) (Metric, bool) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricTemp:
		return MetricTemp, true
	case MetricPH:
		return MetricPH, true
	case MetricBoth:
		return MetricBoth, true
	}
	return "", false
}

// ChartPoint is one value of a rendered series.
type ChartPoint struct {
	Value float64 `json:"value"`
}

// RangeOption is one entry of the range selector.
type RangeOption struct {
	Key   series.Range `json:"key"`
	Label string       `json:"label"`
}

var rangeLabels = map[series.Range]string{
	series.RangeDay:   "Día",
	series.RangeWeek:  "Semana",
	series.RangeMonth: "Mes",
}

func NewRangeOption(r series.Range) RangeOption {
	return RangeOption{Key: r, Label: rangeLabels[r]}
}

// ChartOptions are the per-request knobs of the chart pipeline.
type ChartOptions struct {
	Range     series.Range
	Metric    Metric
	Target    int
	MaxLabels int
	Viewport  float64
	Theme     Theme
	Scheme    Theme
}

// Chart is everything a line chart needs to draw one view.
type Chart struct {
	Range     series.Range    `json:"range"`
	Metric    Metric          `json:"metric"`
	Ranges    []RangeOption   `json:"ranges"`
	Primary   []ChartPoint    `json:"data"`
	Secondary []ChartPoint    `json:"data2,omitempty"`
	Labels    []string        `json:"labels"`
	Layout    series.Layout   `json:"layout"`
	HideDots  bool            `json:"hide_dots"`
	YSuffix   string          `json:"y_suffix"`
	Empty     bool            `json:"empty"`
	Palette   Palette         `json:"palette"`
	Samples   []series.Sample `json:"-"`
}

// Snapshot is a rendered chart stored in object storage.
type Snapshot struct {
	Key       string       `json:"key"`
	URL       string       `json:"url"`
	Range     series.Range `json:"range"`
	Metric    Metric       `json:"metric"`
	ExpiresAt time.Time    `json:"expires_at"`
}
