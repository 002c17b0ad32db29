package influx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/logger"
	"allgecare/pkg/series"
)

type Config struct {
	URL         string
	Org         string
	Token       string
	Bucket      string
	Measurement string
	Location    *time.Location
}

// window is one display range read straight from the time series store.
type window struct {
	start string
	every string
}

var windows = map[series.Range]window{
	series.RangeDay:   {start: "-1d", every: "5m"},
	series.RangeWeek:  {start: "-7d", every: "30m"},
	series.RangeMonth: {start: "-30d", every: "2h"},
}

// Repo serves the measurements payload from InfluxDB instead of the
// monitoring API. Readings are pre-averaged per window by Flux so the
// resampler receives a bounded series.
type Repo struct {
	client influxdb2.Client
	query  api.QueryAPI
	cfg    Config
}

func NewRepo(cfg Config) *Repo {
	if cfg.Measurement == "" {
		cfg.Measurement = "mediciones"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPRequestTimeout(30))
	return &Repo{client: client, query: client.QueryAPI(cfg.Org), cfg: cfg}
}

func (r *Repo) Close() {
	r.client.Close()
}

func (r *Repo) Measurements(ctx context.Context) (*entity.Measurements, error) {
	out := &entity.Measurements{}

	var day []row
	for _, rg := range []series.Range{series.RangeDay, series.RangeWeek, series.RangeMonth} {
		rows, err := r.readWindow(ctx, rg)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(toSamples(rows, r.cfg.Location))
		if err != nil {
			return nil, err
		}
		switch rg {
		case series.RangeDay:
			out.LastDayData = raw
			day = rows
		case series.RangeWeek:
			out.LastWeekData = raw
		case series.RangeMonth:
			out.LastMonthData = raw
		}
	}

	latest, err := r.readLatest(ctx)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		if out.Latest, err = encodeLatest(*latest, r.cfg.Location); err != nil {
			return nil, err
		}
	}
	out.MaxLastDay, out.MinLastDay = extremes(day)
	return out, nil
}

func (r *Repo) readWindow(ctx context.Context, rg series.Range) ([]row, error) {
	w := windows[rg]
	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: %s)
  |> filter(fn: (r) => r._measurement == %q and (r._field == "ph" or r._field == "temperatura"))
  |> aggregateWindow(every: %s, fn: mean, createEmpty: false)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> sort(columns: ["_time"])`, r.cfg.Bucket, w.start, r.cfg.Measurement, w.every)
	return r.run(ctx, flux)
}

func (r *Repo) readLatest(ctx context.Context) (*row, error) {
	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: -1d)
  |> filter(fn: (r) => r._measurement == %q)
  |> last()
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")`, r.cfg.Bucket, r.cfg.Measurement)
	rows, err := r.run(ctx, flux)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[len(rows)-1], nil
}

func (r *Repo) run(ctx context.Context, flux string) ([]row, error) {
	t0 := time.Now()
	result, err := r.query.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("influx query: %w", err)
	}
	defer result.Close()

	var rows []row
	for result.Next() {
		rec := result.Record()
		rows = append(rows, row{Time: rec.Time(), Values: rec.Values()})
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("influx query parsing error: %w", result.Err())
	}
	logger.Debugf("influx query returned %d rows in %.2f ms", len(rows), float64(time.Since(t0).Microseconds())/1e3)
	return rows, nil
}
