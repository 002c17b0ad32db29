package series

import (
	"strconv"
	"strings"
	"time"
)

// Range is the display range selected by the user.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// ParseRange maps a query value to a Range. Unknown values report false.
func ParseRange(s string) (Range, bool) {
	switch Range(strings.ToLower(strings.TrimSpace(s))) {
	case RangeDay:
		return RangeDay, true
	case RangeWeek:
		return RangeWeek, true
	case RangeMonth:
		return RangeMonth, true
	}
	return "", false
}

// DefaultMaxLabels is the number of x-axis ticks aimed for.
const DefaultMaxLabels = 8

// weekday initials, Sunday first
var weekdayInitials = [7]string{"D", "L", "M", "X", "J", "V", "S"}

// BuildLabels returns one x-axis label per point. Only every
// max(1, n/maxLabels)-th position is filled; the last position is always
// filled with the label of the final point.
func BuildLabels(points []Sample, maxLabels int, r Range) []string {
	n := len(points)
	if n == 0 {
		return []string{}
	}
	if maxLabels <= 0 {
		maxLabels = DefaultMaxLabels
	}
	step := n / maxLabels
	if step < 1 {
		step = 1
	}
	labels := make([]string, n)
	for i := 0; i < n; i += step {
		labels[i] = PointLabel(points[i], r)
	}
	labels[n-1] = PointLabel(points[n-1], r)
	return labels
}

// AlignLabels truncates or pads labels with "" so that len == n.
func AlignLabels(labels []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(labels) == n {
		return labels
	}
	if len(labels) > n {
		return labels[:n]
	}
	out := make([]string, n)
	copy(out, labels)
	return out
}

// PointLabel formats a single point for the given range.
func PointLabel(p Sample, r Range) string {
	switch r {
	case RangeWeek:
		if p.DiaRegistro == "" {
			return ""
		}
		return WeekdayInitial(p.DiaRegistro)
	case RangeMonth:
		if p.DiaRegistro == "" {
			return ClockLabel(p.Hora)
		}
		return ShortDate(p.DiaRegistro)
	default:
		return ClockLabel(p.Hora)
	}
}

// ClockLabel keeps the HH:MM prefix of a clock string.
func ClockLabel(hora string) string {
	r := []rune(hora)
	if len(r) > 5 {
		r = r[:5]
	}
	return string(r)
}

// ShortDate turns a day label into DD/MM. Strings that are neither dash- nor
// slash-separated dates are returned as is.
func ShortDate(day string) string {
	if strings.Contains(day, "-") {
		parts := strings.Split(day, "-")
		if len(parts) >= 3 {
			return datePart(parts[2]) + "/" + parts[1]
		}
	}
	if strings.Contains(day, "/") {
		parts := strings.Split(day, "/")
		if len(parts) == 3 {
			if len(parts[0]) == 4 {
				return datePart(parts[2]) + "/" + parts[1]
			}
			return parts[0] + "/" + parts[1]
		}
	}
	return day
}

// WeekdayInitial returns the Spanish weekday initial of a day label, or ""
// when the label cannot be parsed.
func WeekdayInitial(day string) string {
	y, m, d, ok := parseDay(day)
	if !ok {
		return ""
	}
	t := time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
	return weekdayInitials[t.Weekday()]
}

// parseDay accepts YYYY-MM-DD, YYYY/MM/DD and DD/MM/YYYY. A trailing time
// part on the day component (ISO timestamps) is ignored.
func parseDay(s string) (y, m, d int, ok bool) {
	var parts []string
	switch {
	case strings.Contains(s, "-"):
		parts = strings.Split(s, "-")
		if len(parts) < 3 {
			return 0, 0, 0, false
		}
	case strings.Contains(s, "/"):
		parts = strings.Split(s, "/")
		if len(parts) != 3 {
			return 0, 0, 0, false
		}
		if len(parts[0]) != 4 {
			parts[0], parts[2] = parts[2], parts[0]
		}
	default:
		return 0, 0, 0, false
	}

	var err error
	if y, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return 0, 0, 0, false
	}
	if m, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return 0, 0, 0, false
	}
	if d, err = strconv.Atoi(datePart(strings.TrimSpace(parts[2]))); err != nil {
		return 0, 0, 0, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return 0, 0, 0, false
	}
	return y, m, d, true
}

// datePart strips a time suffix such as "T10:00:00Z" or " 10:00".
func datePart(s string) string {
	if i := strings.IndexAny(s, "T "); i > 0 {
		return s[:i]
	}
	return s
}
