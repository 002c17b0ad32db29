package influx

import (
	"math"
	"strings"
	"testing"
	"time"

	"allgecare/internal/domain/entity"
	"allgecare/internal/repository/monitoring"
	"allgecare/pkg/series"
)

func TestToSamplesFormatsClockAndDay(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*3600)
	rows := []row{
		{Time: time.Date(2024, 3, 5, 3, 30, 0, 0, time.UTC), Values: map[string]any{"ph": 7.2, "temperatura": 24.5}},
	}

	got := series.Sanitize(toSamples(rows, loc))
	if len(got) != 1 {
		t.Fatalf("len=%d want 1", len(got))
	}
	if got[0].Hora != "22:30:00" || got[0].DiaRegistro != "2024-03-04" {
		t.Fatalf("got %q %q want 22:30:00 2024-03-04", got[0].Hora, got[0].DiaRegistro)
	}
	if got[0].PH != 7.2 || got[0].Temperature != 24.5 {
		t.Fatalf("values %+v", got[0])
	}
}

func TestExtremesMatchNormalizer(t *testing.T) {
	t.Parallel()
	rows := []row{
		{Values: map[string]any{"ph": 7.0, "temperatura": 22.0}},
		{Values: map[string]any{"ph": 6.4, "temperatura": 26.5}},
		{Values: map[string]any{"ph": 7.9}},
	}
	max, min := extremes(rows)

	ex := monitoring.NormalizeExtremes(&entity.Measurements{MaxLastDay: max, MinLastDay: min})
	if ex.MaxPH == nil || *ex.MaxPH != 7.9 || ex.MinPH == nil || *ex.MinPH != 6.4 {
		t.Fatalf("ph extremes %+v", ex)
	}
	if ex.MaxTemp == nil || *ex.MaxTemp != 26.5 || ex.MinTemp == nil || *ex.MinTemp != 22 {
		t.Fatalf("temperature extremes %+v", ex)
	}
}

func TestExtremesEmpty(t *testing.T) {
	t.Parallel()
	max, min := extremes(nil)
	if max != nil || min != nil {
		t.Fatalf("expected no extremes, got %s %s", max, min)
	}
}

func TestEncodeLatest(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)

	raw, err := encodeLatest(row{Time: at, Values: map[string]any{"ph": 7.0, "temperatura": 24.5, "luz": "1"}}, time.UTC)
	if err != nil {
		t.Fatalf("encodeLatest: %v", err)
	}
	if !strings.Contains(string(raw), `"hora":"15:00:00"`) {
		t.Fatalf("raw=%s", raw)
	}

	if _, err := encodeLatest(row{Time: at, Values: map[string]any{"ph": math.NaN()}}, time.UTC); err == nil {
		t.Fatalf("NaN reading must not encode silently")
	}
}
