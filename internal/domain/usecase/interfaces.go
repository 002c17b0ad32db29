package usecase

import (
	"context"
	"encoding/json"
	"time"

	"allgecare/internal/domain/entity"
)

type MeasurementsSource interface {
	Measurements(ctx context.Context) (*entity.Measurements, error)
}

type MeasurementsCache interface {
	GetMeasurements(ctx context.Context) (*entity.Measurements, error)
	SetMeasurements(ctx context.Context, m *entity.Measurements) error
	InvalidateMeasurements(ctx context.Context) error
}

type CooldownStore interface {
	CooldownRemaining(ctx context.Context, caller string) (time.Duration, error)
	MarkRefreshed(ctx context.Context, caller string) error
}

type AlertsSource interface {
	LatestAlert(ctx context.Context) (*entity.Alert, error)
}

type SnapshotStore interface {
	Upload(ctx context.Context, key, contentType string, body []byte) error
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type ThresholdsAPI interface {
	Thresholds(ctx context.Context) (*entity.Thresholds, error)
	UpdateThresholds(ctx context.Context, payload map[string]any) (*entity.ThresholdsUpdate, error)
}

type ThresholdHistoryRepo interface {
	RecordChange(ctx context.Context, change *entity.ThresholdChange) error
	ListChanges(ctx context.Context, limit int) ([]entity.ThresholdChange, error)
}

type Publisher interface {
	Publish(ctx context.Context, body json.RawMessage) error
}

type AccountsAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	UsersByEmail(ctx context.Context, email string) ([]entity.User, error)
}

type SessionRepo interface {
	SaveSession(ctx context.Context, s *entity.Session) error
	GetSession(ctx context.Context, token string) (*entity.Session, error)
	DeleteSession(ctx context.Context, token string) error
}
