package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/series"
)

func daySeries(n int) json.RawMessage {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"ph":"7.%d","temperatura":%d,"hora":"%02d:%02d:00","dia_registro":"2024-01-01"}`, i%10, 20+i%5, (i/60)%24, i%60)
	}
	b.WriteString("]")
	return json.RawMessage(b.String())
}

func TestBuildChartFallsBackToDay(t *testing.T) {
	t.Parallel()
	m := &entity.Measurements{LastDayData: daySeries(3), LastWeekData: json.RawMessage(`[]`)}

	c := BuildChart(m, entity.ChartOptions{Range: series.RangeWeek, Metric: entity.MetricTemp})
	if c.Range != series.RangeDay {
		t.Fatalf("range=%s want day", c.Range)
	}
	if len(c.Ranges) != 1 || c.Ranges[0].Key != series.RangeDay || c.Ranges[0].Label != "Día" {
		t.Fatalf("ranges=%+v want only day", c.Ranges)
	}
	if c.YSuffix != "°C" || c.Secondary != nil {
		t.Fatalf("temp chart: suffix=%q secondary=%v", c.YSuffix, c.Secondary)
	}
}

func TestBuildChartMetrics(t *testing.T) {
	t.Parallel()
	m := &entity.Measurements{
		LastDayData:   daySeries(2),
		LastMonthData: json.RawMessage(`[{"ph":6.5,"temperatura":"21","dia_registro":"2024-02-09"}]`),
	}

	ph := BuildChart(m, entity.ChartOptions{Range: series.RangeMonth, Metric: entity.MetricPH})
	if ph.Range != series.RangeMonth || len(ph.Primary) != 1 || ph.Primary[0].Value != 6.5 {
		t.Fatalf("ph chart %+v", ph)
	}
	if ph.YSuffix != "" || ph.Labels[0] != "09/02" {
		t.Fatalf("suffix=%q labels=%v", ph.YSuffix, ph.Labels)
	}
	if len(ph.Ranges) != 2 {
		t.Fatalf("ranges=%+v want day and month", ph.Ranges)
	}

	both := BuildChart(m, entity.ChartOptions{Range: series.RangeDay, Metric: entity.MetricBoth})
	if len(both.Primary) != 2 || len(both.Secondary) != 2 {
		t.Fatalf("both chart lens %d/%d", len(both.Primary), len(both.Secondary))
	}
	if both.Primary[0].Value != 20 || both.Secondary[1].Value != 7.1 {
		t.Fatalf("primary=%v secondary=%v", both.Primary, both.Secondary)
	}
}

func TestBuildChartDownsamplesAndHidesDots(t *testing.T) {
	t.Parallel()
	m := &entity.Measurements{LastDayData: daySeries(1000)}

	c := BuildChart(m, entity.ChartOptions{Range: series.RangeDay, Viewport: 360})
	if len(c.Primary) != 334 {
		t.Fatalf("points=%d want 334", len(c.Primary))
	}
	if !c.HideDots {
		t.Fatalf("dots should be hidden above %d points", HideDotsAbove)
	}
	if len(c.Labels) != len(c.Primary) {
		t.Fatalf("labels=%d points=%d", len(c.Labels), len(c.Primary))
	}
	if c.Layout.Spacing != series.DefaultMinSpacing || c.Layout.Width <= 336 {
		t.Fatalf("expected scrolling layout, got %+v", c.Layout)
	}
	if c.Labels[len(c.Labels)-1] == "" {
		t.Fatalf("last label must be populated")
	}
}

func TestBuildChartEmpty(t *testing.T) {
	t.Parallel()
	c := BuildChart(&entity.Measurements{LastDayData: json.RawMessage(`"oops"`)}, entity.ChartOptions{Theme: entity.ThemeDark})
	if !c.Empty || len(c.Primary) != 0 || c.Range != series.RangeDay {
		t.Fatalf("expected empty day chart, got %+v", c)
	}
	if c.Palette != entity.DarkPalette {
		t.Fatalf("dark theme not applied")
	}
	if c.Layout.Width != 336 {
		t.Fatalf("layout=%+v", c.Layout)
	}
}

func TestBuildSummary(t *testing.T) {
	t.Parallel()
	m := &entity.Measurements{
		Latest:     json.RawMessage(`{"ph":7.1,"temperatura":"24.5","luz":1,"hora":"10:15:00"}`),
		MaxLastDay: json.RawMessage(`{"maxPh":7.9,"maxTemp":27}`),
		MinLastDay: json.RawMessage(`{"minPh":6.8,"maxTemp":21}`),
	}
	s := BuildSummary(m)
	if s.Latest == nil {
		t.Fatalf("latest missing")
	}
	if s.Latest.Temperature != "24.5 °C" || s.Latest.LightStatus != entity.LightEnough {
		t.Fatalf("latest=%+v", s.Latest)
	}
	if s.Extremes.MinTemp == nil || *s.Extremes.MinTemp != 21 {
		t.Fatalf("min temp fallback not applied: %+v", s.Extremes)
	}

	if BuildSummary(&entity.Measurements{Latest: json.RawMessage(`null`)}).Latest != nil {
		t.Fatalf("null latest should yield no reading")
	}
}
