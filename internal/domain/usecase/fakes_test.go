package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"allgecare/internal/domain/entity"
)

type fakeSource struct {
	mu    sync.Mutex
	m     *entity.Measurements
	err   error
	calls int
}

func (f *fakeSource) Measurements(ctx context.Context) (*entity.Measurements, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.m, f.err
}

type fakeCache struct {
	m           *entity.Measurements
	invalidated int
}

func (f *fakeCache) GetMeasurements(ctx context.Context) (*entity.Measurements, error) {
	return f.m, nil
}

func (f *fakeCache) SetMeasurements(ctx context.Context, m *entity.Measurements) error {
	f.m = m
	return nil
}

func (f *fakeCache) InvalidateMeasurements(ctx context.Context) error {
	f.m = nil
	f.invalidated++
	return nil
}

type fakeCooldown struct {
	remaining map[string]time.Duration
	marked    []string
}

func (f *fakeCooldown) CooldownRemaining(ctx context.Context, caller string) (time.Duration, error) {
	return f.remaining[caller], nil
}

func (f *fakeCooldown) MarkRefreshed(ctx context.Context, caller string) error {
	f.marked = append(f.marked, caller)
	return nil
}

type fakeSnapshots struct {
	keys []string
	body [][]byte
}

func (f *fakeSnapshots) Upload(ctx context.Context, key, contentType string, body []byte) error {
	f.keys = append(f.keys, key)
	f.body = append(f.body, body)
	return nil
}

func (f *fakeSnapshots) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://s3.local/" + key + "?sig=1", nil
}

type fakeAlerts struct {
	alert *entity.Alert
}

func (f *fakeAlerts) LatestAlert(ctx context.Context) (*entity.Alert, error) {
	return f.alert, nil
}

type fakeThresholdsAPI struct {
	current   entity.Thresholds
	payloads  []map[string]any
	confirmed *entity.ThresholdsUpdate
	err       error
}

func (f *fakeThresholdsAPI) Thresholds(ctx context.Context) (*entity.Thresholds, error) {
	return &f.current, nil
}

func (f *fakeThresholdsAPI) UpdateThresholds(ctx context.Context, payload map[string]any) (*entity.ThresholdsUpdate, error) {
	f.payloads = append(f.payloads, payload)
	return f.confirmed, f.err
}

type fakeHistory struct {
	changes []*entity.ThresholdChange
}

func (f *fakeHistory) RecordChange(ctx context.Context, c *entity.ThresholdChange) error {
	f.changes = append(f.changes, c)
	return nil
}

func (f *fakeHistory) ListChanges(ctx context.Context, limit int) ([]entity.ThresholdChange, error) {
	var out []entity.ThresholdChange
	for i := len(f.changes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.changes[i])
	}
	return out, nil
}

type fakePublisher struct {
	failures int
	bodies   []json.RawMessage
	attempts int
	block    chan struct{}
}

func (f *fakePublisher) Publish(ctx context.Context, body json.RawMessage) error {
	if f.block != nil {
		<-f.block
	}
	f.attempts++
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.attempts <= f.failures {
		return errors.New("channel closed")
	}
	f.bodies = append(f.bodies, body)
	return nil
}

type fakeAccounts struct {
	token string
	err   error
	users []entity.User
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeAccounts) UsersByEmail(ctx context.Context, email string) ([]entity.User, error) {
	return f.users, nil
}

type fakeSessions struct {
	byToken map[string]*entity.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: map[string]*entity.Session{}}
}

func (f *fakeSessions) SaveSession(ctx context.Context, s *entity.Session) error {
	f.byToken[s.Token] = s
	return nil
}

func (f *fakeSessions) GetSession(ctx context.Context, token string) (*entity.Session, error) {
	s, ok := f.byToken[token]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) DeleteSession(ctx context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}
