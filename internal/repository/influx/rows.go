package influx

import (
	"encoding/json"
	"fmt"
	"time"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/series"
)

type row struct {
	Time   time.Time
	Values map[string]any
}

func toSamples(rows []row, loc *time.Location) []series.RawSample {
	out := make([]series.RawSample, 0, len(rows))
	for _, r := range rows {
		t := r.Time.In(loc)
		out = append(out, series.RawSample{
			PH:          r.Values["ph"],
			Temperature: r.Values["temperatura"],
			Hora:        t.Format("15:04:05"),
			DiaRegistro: t.Format("2006-01-02"),
		})
	}
	return out
}

func latestReading(r row, loc *time.Location) entity.LatestReading {
	return entity.LatestReading{
		PH:          r.Values["ph"],
		Temperature: r.Values["temperatura"],
		Light:       r.Values["luz"],
		Hora:        r.Time.In(loc).Format("15:04:05"),
	}
}

func encodeLatest(r row, loc *time.Location) (json.RawMessage, error) {
	raw, err := json.Marshal(latestReading(r, loc))
	if err != nil {
		return nil, fmt.Errorf("encode latest reading at %s: %w", r.Time.Format(time.RFC3339), err)
	}
	return raw, nil
}

// extremes builds the maxLastDay/minLastDay objects from the day rows.
func extremes(rows []row) (json.RawMessage, json.RawMessage) {
	var (
		maxPH, maxTemp, minPH, minTemp *float64
	)
	track := func(v any, max, min **float64) {
		if v == nil {
			return
		}
		f := series.Number(v)
		if *max == nil || f > **max {
			*max = &f
		}
		if *min == nil || f < **min {
			g := f
			*min = &g
		}
	}
	for _, r := range rows {
		track(r.Values["ph"], &maxPH, &minPH)
		track(r.Values["temperatura"], &maxTemp, &minTemp)
	}
	if maxPH == nil && maxTemp == nil {
		return nil, nil
	}
	maxRaw, _ := json.Marshal(map[string]*float64{"maxPh": maxPH, "maxTemp": maxTemp})
	minRaw, _ := json.Marshal(map[string]*float64{"minPh": minPH, "minTemp": minTemp})
	return maxRaw, minRaw
}
