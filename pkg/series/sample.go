// Package series turns raw sensor readings into bounded, labelled sequences
// ready for chart rendering.
//
// Every function here is pure: the same input always yields the same output
// and nothing fails on malformed data. Bad numbers become 0 and missing labels
// become "".
package series

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// RawSample is one reading as it arrives from the monitoring API. Field types
// are whatever the JSON carried: float64, string, bool or nil.
type RawSample struct {
	PH          any `json:"ph"`
	Temperature any `json:"temperatura"`
	Hora        any `json:"hora"`
	DiaRegistro any `json:"dia_registro"`
}

// UnmarshalJSON accepts any JSON value. Non-objects decode to a zero sample.
func (r *RawSample) UnmarshalJSON(data []byte) error {
	type plain RawSample
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*r = RawSample{}
		return nil
	}
	*r = RawSample(p)
	return nil
}

// Sample is a sanitized reading. Buckets produced by Downsample use the same
// shape.
type Sample struct {
	PH          float64 `json:"ph"`
	Temperature float64 `json:"temperatura"`
	Hora        string  `json:"hora"`
	DiaRegistro string  `json:"dia_registro"`
}

// DecodeRaw decodes a JSON array of readings. Anything that is not an array
// (null, absent, object, scalar) yields nil.
func DecodeRaw(data json.RawMessage) []RawSample {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var out []RawSample
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil
	}
	return out
}

// Number coerces a decoded JSON value the way JavaScript's Number() does and
// replaces non-finite results with 0.
func Number(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		f = parseNumeric(string(t))
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		f = parseNumeric(strings.TrimSpace(t))
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseNumeric reads a trimmed string as a decimal literal or an unsigned
// 0x, 0o or 0b integer. Anything else, hex floats included, is 0.
func parseNumeric(s string) float64 {
	if s == "" {
		return 0
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if s[2] == '+' || s[2] == '-' {
				return 0
			}
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok {
				return 0
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}
	if !decimalLiteral.MatchString(s) {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Label coerces a decoded JSON value to a string label. nil becomes "".
func Label(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Sanitize coerces every reading to a Sample. The output has the same length
// as the input; nil input gives an empty, non-nil slice.
func Sanitize(raw []RawSample) []Sample {
	out := make([]Sample, len(raw))
	for i, r := range raw {
		out[i] = Sample{
			PH:          Number(r.PH),
			Temperature: Number(r.Temperature),
			Hora:        Label(r.Hora),
			DiaRegistro: Label(r.DiaRegistro),
		}
	}
	return out
}

// Raw converts sanitized samples back to raw ones. Sanitize(Raw(s)) == s.
func Raw(samples []Sample) []RawSample {
	out := make([]RawSample, len(samples))
	for i, s := range samples {
		out[i] = RawSample{PH: s.PH, Temperature: s.Temperature, Hora: s.Hora, DiaRegistro: s.DiaRegistro}
	}
	return out
}
