package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"allgecare/internal/domain/entity"
	"allgecare/internal/render"
	"allgecare/internal/repository/monitoring"
	"allgecare/pkg/fetch"
	"allgecare/pkg/logger"
)

const SnapshotExpiry = 24 * time.Hour

// DashboardUseCase serves the reading screens: charts, the summary cards,
// the latest alert and forced refreshes.
type DashboardUseCase struct {
	Source    MeasurementsSource
	Cache     MeasurementsCache
	Cooldown  CooldownStore
	Alerts    AlertsSource
	Snapshots SnapshotStore
}

func NewDashboardUseCase(src MeasurementsSource, cache MeasurementsCache, cd CooldownStore, alerts AlertsSource, snaps SnapshotStore) *DashboardUseCase {
	return &DashboardUseCase{
		Source:    src,
		Cache:     cache,
		Cooldown:  cd,
		Alerts:    alerts,
		Snapshots: snaps,
	}
}

// measurements reads through the cache. Cache failures only cost a fetch.
func (u *DashboardUseCase) measurements(ctx context.Context) (*entity.Measurements, error) {
	if u.Cache != nil {
		m, err := u.Cache.GetMeasurements(ctx)
		if err != nil {
			logger.Warnf("measurements cache read failed: %v", err)
		} else if m != nil {
			return m, nil
		}
	}
	return u.fetch(ctx)
}

func (u *DashboardUseCase) fetch(ctx context.Context) (*entity.Measurements, error) {
	m, err := u.Source.Measurements(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch measurements: %w", err)
	}
	if u.Cache != nil {
		if err := u.Cache.SetMeasurements(ctx, m); err != nil {
			logger.Warnf("measurements cache write failed: %v", err)
		}
	}
	return m, nil
}

func (u *DashboardUseCase) Chart(ctx context.Context, opts entity.ChartOptions) (*entity.Chart, error) {
	m, err := u.measurements(ctx)
	if err != nil {
		return nil, err
	}
	return BuildChart(m, opts), nil
}

// ChartPNG renders the chart. An empty chart is ErrNoData.
func (u *DashboardUseCase) ChartPNG(ctx context.Context, opts entity.ChartOptions) (*entity.Chart, []byte, error) {
	c, err := u.Chart(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	img, err := render.PNG(c, 0)
	if errors.Is(err, render.ErrNothingToDraw) {
		return c, nil, ErrNoData
	}
	if err != nil {
		return nil, nil, fmt.Errorf("render chart: %w", err)
	}
	return c, img, nil
}

// Snapshot renders the chart, stores it and returns a presigned link.
func (u *DashboardUseCase) Snapshot(ctx context.Context, opts entity.ChartOptions) (*entity.Snapshot, error) {
	c, img, err := u.ChartPNG(ctx, opts)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("charts/%s/%s.png", c.Range, uuid.New().String())
	if err := u.Snapshots.Upload(ctx, key, "image/png", img); err != nil {
		return nil, err
	}
	url, err := u.Snapshots.GetPresignedURL(ctx, key, SnapshotExpiry)
	if err != nil {
		return nil, err
	}
	return &entity.Snapshot{
		Key:       key,
		URL:       url,
		Range:     c.Range,
		Metric:    c.Metric,
		ExpiresAt: time.Now().Add(SnapshotExpiry).UTC(),
	}, nil
}

func (u *DashboardUseCase) Summary(ctx context.Context) (*entity.Summary, error) {
	m, err := u.measurements(ctx)
	if err != nil {
		return nil, err
	}
	return BuildSummary(m), nil
}

// Refresh bypasses the cache. A caller may force one refresh per cooldown
// window; the window starts when the refresh completes.
func (u *DashboardUseCase) Refresh(ctx context.Context) (*entity.Summary, error) {
	caller := fetch.Caller(ctx)
	if u.Cooldown != nil {
		remaining, err := u.Cooldown.CooldownRemaining(ctx, caller)
		if err != nil {
			logger.Warnf("cooldown lookup failed for %q: %v", caller, err)
		} else if remaining > 0 {
			return nil, &CooldownError{Remaining: remaining}
		}
	}

	m, err := u.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if u.Cooldown != nil {
		if err := u.Cooldown.MarkRefreshed(ctx, caller); err != nil {
			logger.Warnf("cooldown mark failed for %q: %v", caller, err)
		}
	}
	return BuildSummary(m), nil
}

// Invalidate drops the cached dataset so the next read goes upstream.
func (u *DashboardUseCase) Invalidate(ctx context.Context) error {
	if u.Cache == nil {
		return nil
	}
	return u.Cache.InvalidateMeasurements(ctx)
}

// LatestAlert returns ErrNoData when no alert was raised yet.
func (u *DashboardUseCase) LatestAlert(ctx context.Context) (*entity.Alert, error) {
	a, err := u.Alerts.LatestAlert(ctx)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNoData
	}
	n := a.Normalized()
	return &n, nil
}

// BuildSummary turns the payload into the home and statistics cards.
func BuildSummary(m *entity.Measurements) *entity.Summary {
	s := &entity.Summary{Extremes: monitoring.NormalizeExtremes(m)}
	if latest, ok := decodeLatest(m); ok {
		r := latest.Display()
		s.Latest = &r
	}
	return s
}
