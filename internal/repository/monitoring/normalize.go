package monitoring

import (
	"encoding/json"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/logger"
	"allgecare/pkg/series"
	"allgecare/pkg/utils"
)

// NormalizeExtremes reads maxLastDay/minLastDay. The API has been seen
// sending the day minimum temperature under "maxTemp" or "temperatura_min"
// instead of "minTemp"; those keys are accepted and logged so the schema
// drift stays visible.
func NormalizeExtremes(m *entity.Measurements) entity.Extremes {
	var out entity.Extremes
	if m == nil {
		return out
	}
	if max := decodeObject(m.MaxLastDay); max != nil {
		out.MaxPH = number(max, "maxPh")
		out.MaxTemp = number(max, "maxTemp")
	}
	if min := decodeObject(m.MinLastDay); min != nil {
		out.MinPH = number(min, "minPh")
		for _, key := range []string{"minTemp", "maxTemp", "temperatura_min"} {
			if v := number(min, key); v != nil {
				if key != "minTemp" {
					logger.Warnf("upstream schema drift: minLastDay carries %q instead of \"minTemp\"", key)
				}
				out.MinTemp = v
				break
			}
		}
	}
	return out
}

func decodeObject(raw json.RawMessage) map[string]any {
	if !utils.IsJSONObject(raw) {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

func number(obj map[string]any, key string) *float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	f := series.Number(v)
	return &f
}
