package v1

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/series"
	"allgecare/pkg/utils"
)

type DashboardUseCase interface {
	Chart(ctx context.Context, opts entity.ChartOptions) (*entity.Chart, error)
	ChartPNG(ctx context.Context, opts entity.ChartOptions) (*entity.Chart, []byte, error)
	Snapshot(ctx context.Context, opts entity.ChartOptions) (*entity.Snapshot, error)
	Summary(ctx context.Context) (*entity.Summary, error)
	Refresh(ctx context.Context) (*entity.Summary, error)
	LatestAlert(ctx context.Context) (*entity.Alert, error)
}

type DashboardHandler struct {
	UseCase DashboardUseCase
}

func NewDashboardHandler(u DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{UseCase: u}
}

func (h *DashboardHandler) GetChart(c *gin.Context) {
	opts, ok := chartOptions(c)
	if !ok {
		return
	}
	chart, err := h.UseCase.Chart(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (h *DashboardHandler) GetChartPNG(c *gin.Context) {
	opts, ok := chartOptions(c)
	if !ok {
		return
	}
	_, img, err := h.UseCase.ChartPNG(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=30")
	c.Data(http.StatusOK, "image/png", img)
}

func (h *DashboardHandler) GetChartCSV(c *gin.Context) {
	opts, ok := chartOptions(c)
	if !ok {
		return
	}
	chart, err := h.UseCase.Chart(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := utils.WriteSamplesCSV(&buf, chart.Samples, chart.Labels); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="mediciones-`+string(chart.Range)+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *DashboardHandler) CreateSnapshot(c *gin.Context) {
	opts, ok := chartOptions(c)
	if !ok {
		return
	}
	snap, err := h.UseCase.Snapshot(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	s, err := h.UseCase.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	s, err := h.UseCase.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *DashboardHandler) LatestAlert(c *gin.Context) {
	a, err := h.UseCase.LatestAlert(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// chartOptions reads the query knobs. It replies 400 and returns false on a
// malformed value.
func chartOptions(c *gin.Context) (entity.ChartOptions, bool) {
	opts := entity.ChartOptions{
		Range:  series.RangeDay,
		Metric: entity.MetricTemp,
		Theme:  entity.ThemeSystem,
		Scheme: entity.ThemeLight,
	}
	bad := func(field string) (entity.ChartOptions, bool) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
		return opts, false
	}

	if v := c.Query("range"); v != "" {
		r, ok := series.ParseRange(v)
		if !ok {
			return bad("range")
		}
		opts.Range = r
	}
	if v := c.Query("metric"); v != "" {
		m, ok := entity.ParseMetric(v)
		if !ok {
			return bad("metric")
		}
		opts.Metric = m
	}
	if v := c.Query("theme"); v != "" {
		th, ok := entity.ParseTheme(v)
		if !ok {
			return bad("theme")
		}
		opts.Theme = th
	}
	if v := c.Query("scheme"); v != "" {
		sc, ok := entity.ParseTheme(v)
		if !ok || sc == entity.ThemeSystem {
			return bad("scheme")
		}
		opts.Scheme = sc
	}
	if v := c.Query("target"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return bad("target")
		}
		opts.Target = n
	}
	if v := c.Query("labels"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return bad("labels")
		}
		opts.MaxLabels = n
	}
	if v := c.Query("viewport"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 10000 {
			return bad("viewport")
		}
		opts.Viewport = f
	}
	return opts, true
}
