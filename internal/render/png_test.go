package render

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/series"
)

func points(vals ...float64) []entity.ChartPoint {
	out := make([]entity.ChartPoint, len(vals))
	for i, v := range vals {
		out[i] = entity.ChartPoint{Value: v}
	}
	return out
}

func TestPNGRendersAtLayoutWidth(t *testing.T) {
	c := &entity.Chart{
		Metric:    entity.MetricBoth,
		Primary:   points(22, 23.5, 24, 23),
		Secondary: points(7, 7.1, 6.9, 7.2),
		Labels:    []string{"08:00", "", "", "09:30"},
		Layout:    series.Layout{Width: 400, Spacing: 100},
		YSuffix:   "°C",
		Palette:   entity.DarkPalette,
	}

	raw, err := PNG(c, 0)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != DefaultHeight {
		t.Fatalf("size %dx%d want 400x%d", b.Dx(), b.Dy(), DefaultHeight)
	}
}

func TestPNGSinglePoint(t *testing.T) {
	c := &entity.Chart{Primary: points(24), Labels: []string{"08:00"}, Palette: entity.LightPalette}
	if _, err := PNG(c, 200); err != nil {
		t.Fatalf("single point chart should render: %v", err)
	}
}

func TestPNGEmpty(t *testing.T) {
	if _, err := PNG(&entity.Chart{Empty: true}, 0); !errors.Is(err, ErrNothingToDraw) {
		t.Fatalf("got %v want ErrNothingToDraw", err)
	}
}

func TestHexColorAlpha(t *testing.T) {
	c := hexColor("#94A3B840")
	if c.R != 0x94 || c.G != 0xA3 || c.B != 0xB8 || c.A != 0x40 {
		t.Fatalf("got %+v", c)
	}
	if c := hexColor("#ffffff"); c.A != 255 {
		t.Fatalf("opaque color alpha=%d", c.A)
	}
}

func TestNiceBounds(t *testing.T) {
	lo, hi := niceBounds(22, 26)
	if lo > 22 || hi < 26 {
		t.Fatalf("bounds [%v, %v] do not cover data", lo, hi)
	}
	lo, hi = niceBounds(5, 5)
	if hi <= lo {
		t.Fatalf("flat series must get a non-empty range, got [%v, %v]", lo, hi)
	}
}
