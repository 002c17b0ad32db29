package usecase

import (
	"encoding/json"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/series"
	"allgecare/pkg/utils"
)

// HideDotsAbove is the point count above which dots are not drawn.
const HideDotsAbove = 150

var rangeOrder = []series.Range{series.RangeDay, series.RangeWeek, series.RangeMonth}

// BuildChart runs the resampling pipeline for one view. It never fails;
// missing data yields an empty chart.
func BuildChart(m *entity.Measurements, opts entity.ChartOptions) *entity.Chart {
	byRange := make(map[series.Range][]series.Sample, len(rangeOrder))
	var available []entity.RangeOption
	for _, r := range rangeOrder {
		samples := series.Sanitize(m.Series(r))
		byRange[r] = samples
		if r == series.RangeDay || len(samples) > 0 {
			available = append(available, entity.NewRangeOption(r))
		}
	}

	selected := available[0].Key
	for _, opt := range available {
		if opt.Key == opts.Range {
			selected = opt.Key
			break
		}
	}

	metric := opts.Metric
	if metric == "" {
		metric = entity.MetricTemp
	}

	sampled := series.Downsample(byRange[selected], opts.Target)

	c := &entity.Chart{
		Range:    selected,
		Metric:   metric,
		Ranges:   available,
		Samples:  sampled,
		Palette:  entity.ResolvePalette(opts.Theme, opts.Scheme),
		HideDots: len(sampled) > HideDotsAbove,
		Empty:    len(sampled) == 0,
	}

	temps := make([]entity.ChartPoint, len(sampled))
	phs := make([]entity.ChartPoint, len(sampled))
	for i, s := range sampled {
		temps[i] = entity.ChartPoint{Value: s.Temperature}
		phs[i] = entity.ChartPoint{Value: s.PH}
	}
	switch metric {
	case entity.MetricPH:
		c.Primary = phs
	case entity.MetricBoth:
		c.Primary = temps
		c.Secondary = phs
	default:
		c.Primary = temps
		c.YSuffix = entity.TemperatureCU
	}

	labels := series.BuildLabels(sampled, opts.MaxLabels, selected)
	c.Labels = series.AlignLabels(labels, len(c.Primary))
	c.Layout = series.ComputeLayout(len(c.Primary), series.DefaultLayoutParams(opts.Viewport))
	return c
}

func decodeLatest(m *entity.Measurements) (entity.LatestReading, bool) {
	var latest entity.LatestReading
	if m == nil || !utils.IsJSONObject(m.Latest) {
		return latest, false
	}
	if err := json.Unmarshal(m.Latest, &latest); err != nil {
		return latest, false
	}
	return latest, true
}
