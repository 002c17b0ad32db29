package entity

import "strings"

// Theme is a requested or detected color scheme.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeSystem:
		return ThemeSystem, true
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// Palette holds the chart colors for one scheme.
type Palette struct {
	Background string `json:"bg"`
	Card       string `json:"card"`
	Grid       string `json:"grid"`
	PH         string `json:"ph"`
	Temp       string `json:"temp"`
	Label      string `json:"label"`
	Title      string `json:"title"`
	SegBg      string `json:"seg_bg"`
	SegActive  string `json:"seg_active"`
	ErrorBg    string `json:"error_bg"`
	ErrorTitle string `json:"error_title"`
	ErrorText  string `json:"error_text"`
	Empty      string `json:"empty"`
}

var (
	LightPalette = Palette{
		Background: "#F8FAFC",
		Card:       "#FFFFFF",
		Grid:       "#94A3B840",
		PH:         "#93c5fd",
		Temp:       "#fca5a5",
		Label:      "#475569",
		Title:      "#334155",
		SegBg:      "#f1f5f9",
		SegActive:  "#e9d5ff",
		ErrorBg:    "#fee2e2",
		ErrorTitle: "#991b1b",
		ErrorText:  "#7f1d1d",
		Empty:      "#64748b",
	}
	DarkPalette = Palette{
		Background: "#0B1220",
		Card:       "#111827",
		Grid:       "#94A3B838",
		PH:         "#60a5fa",
		Temp:       "#f87171",
		Label:      "#cbd5e1",
		Title:      "#e2e8f0",
		SegBg:      "#1f2937",
		SegActive:  "#4c1d95",
		ErrorBg:    "#7f1d1d",
		ErrorTitle: "#fecaca",
		ErrorText:  "#fecaca",
		Empty:      "#94a3b8",
	}
)

// ResolvePalette picks the palette for a requested theme. "system" follows
// the scheme reported by the device and falls back to light.
func ResolvePalette(theme, scheme Theme) Palette {
	if theme == "" || theme == ThemeSystem {
		theme = scheme
	}
	if theme == ThemeDark {
		return DarkPalette
	}
	return LightPalette
}
