package entity

import (
	"encoding/json"
	"fmt"

	"allgecare/pkg/series"
)

// Measurements is the body of GET /data/mediciones. Series are kept raw so a
// malformed array degrades to "no data" instead of failing the whole decode.
type Measurements struct {
	Latest        json.RawMessage `json:"latest,omitempty"`
	MaxLastDay    json.RawMessage `json:"maxLastDay,omitempty"`
	MinLastDay    json.RawMessage `json:"minLastDay,omitempty"`
	LastDayData   json.RawMessage `json:"lastDayData,omitempty"`
	LastWeekData  json.RawMessage `json:"lastWeekData,omitempty"`
	LastMonthData json.RawMessage `json:"lastMonthData,omitempty"`
}

// Series returns the raw readings behind a display range.
func (m *Measurements) Series(r series.Range) []series.RawSample {
	if m == nil {
		return nil
	}
	switch r {
	case series.RangeWeek:
		return series.DecodeRaw(m.LastWeekData)
	case series.RangeMonth:
		return series.DecodeRaw(m.LastMonthData)
	default:
		return series.DecodeRaw(m.LastDayData)
	}
}

// LatestReading is the most recent reading as sent by the API.
type LatestReading struct {
	PH          any `json:"ph"`
	Temperature any `json:"temperatura"`
	Light       any `json:"luz"`
	Hora        any `json:"hora"`
}

// Reading is the display form of LatestReading.
type Reading struct {
	PH          string `json:"ph"`
	Temperature string `json:"temperatura"`
	Light       string `json:"luz"`
	LightStatus string `json:"luz_estado"`
	Hora        string `json:"hora"`
}

const (
	LightEnough   = "Suficiente luz"
	LightLow      = "Insuficiente luz"
	LightUnknown  = "Estado Desconocido"
	TemperatureCU = "°C"
)

// LightStatus maps the light sensor flag to its display text.
func LightStatus(luz string) string {
	switch luz {
	case "1":
		return LightEnough
	case "0":
		return LightLow
	default:
		return LightUnknown
	}
}

// Display formats the reading for the summary cards.
func (l LatestReading) Display() Reading {
	luz := series.Label(l.Light)
	return Reading{
		PH:          series.Label(l.PH),
		Temperature: fmt.Sprintf("%s %s", series.Label(l.Temperature), TemperatureCU),
		Light:       luz,
		LightStatus: LightStatus(luz),
		Hora:        series.Label(l.Hora),
	}
}

// Extremes are the day minimum and maximum after boundary normalization.
// A nil field means the API did not send it.
type Extremes struct {
	MaxPH   *float64 `json:"max_ph"`
	MaxTemp *float64 `json:"max_temp"`
	MinPH   *float64 `json:"min_ph"`
	MinTemp *float64 `json:"min_temp"`
}

// Summary is what the home and statistics screens show.
type Summary struct {
	Latest   *Reading `json:"latest"`
	Extremes Extremes `json:"extremes"`
}

// MeasurementsIngestedMessage is published by the ingestion side whenever new
// readings land.
type MeasurementsIngestedMessage struct {
	EventID    string `json:"event_id"`
	DeviceID   string `json:"device_id,omitempty"`
	ReceivedAt string `json:"received_at,omitempty"`
}
