package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/logger"
	"allgecare/pkg/series"
)

type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Snapshotter interface {
	Snapshot(ctx context.Context, opts entity.ChartOptions) (*entity.Snapshot, error)
}

// WarmupUseCase reacts to ingest events: it drops the cached dataset and
// pre-renders the day chart. Renders are throttled to one per MinInterval.
type WarmupUseCase struct {
	Cache       Invalidator
	Charts      Snapshotter
	MinInterval time.Duration

	mu         sync.Mutex
	lastRender time.Time
	now        func() time.Time
}

func NewWarmupUseCase(cache Invalidator, charts Snapshotter, minInterval time.Duration) *WarmupUseCase {
	return &WarmupUseCase{
		Cache:       cache,
		Charts:      charts,
		MinInterval: minInterval,
		now:         time.Now,
	}
}

func (u *WarmupUseCase) HandleIngested(ctx context.Context, msg *entity.MeasurementsIngestedMessage) error {
	if err := u.Cache.Invalidate(ctx); err != nil {
		return err
	}
	logger.Debugf("event %s: measurements cache dropped", msg.EventID)

	if !u.due() {
		return nil
	}

	snap, err := u.Charts.Snapshot(ctx, entity.ChartOptions{Range: series.RangeDay, Metric: entity.MetricTemp})
	if errors.Is(err, ErrNoData) {
		logger.Infof("event %s: no day readings to render yet", msg.EventID)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Infof("event %s: day chart stored at %s", msg.EventID, snap.Key)
	return nil
}

func (u *WarmupUseCase) due() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	now := u.now()
	if !u.lastRender.IsZero() && now.Sub(u.lastRender) < u.MinInterval {
		return false
	}
	u.lastRender = now
	return true
}
