package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/client/upstream"
)

// ErrNoToken is returned when login succeeds without a token in the reply.
var ErrNoToken = errors.New("login reply carries no token")

// Repo maps the monitoring API endpoints onto domain types.
type Repo struct {
	client *upstream.Client
}

func NewRepo(client *upstream.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) Measurements(ctx context.Context) (*entity.Measurements, error) {
	var m entity.Measurements
	if err := r.client.Get(ctx, "mediciones", "/data/mediciones", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Thresholds(ctx context.Context) (*entity.Thresholds, error) {
	var t entity.Thresholds
	if err := r.client.Get(ctx, "configuraciones", "/data/configuraciones", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateThresholds posts a partial update and returns the values the API
// confirmed, if it sent them back.
func (r *Repo) UpdateThresholds(ctx context.Context, payload map[string]any) (*entity.ThresholdsUpdate, error) {
	var reply struct {
		Data *entity.ThresholdsUpdate `json:"data"`
	}
	if err := r.client.Post(ctx, "configuraciones", "/data/configuraciones", payload, &reply); err != nil {
		return nil, err
	}
	return reply.Data, nil
}

// LatestAlert returns nil when the API has no alert yet.
func (r *Repo) LatestAlert(ctx context.Context) (*entity.Alert, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "alertas", "/data/alertas", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var a entity.Alert
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) UsersByEmail(ctx context.Context, email string) ([]entity.User, error) {
	var users []entity.User
	q := url.Values{"email": {email}}
	if err := r.client.Get(ctx, "usuario", "/data/usuario", q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repo) Login(ctx context.Context, email, password string) (string, error) {
	var reply struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := r.client.Post(ctx, "login", "/api/login", body, &reply); err != nil {
		return "", err
	}
	if reply.Token == "" {
		return "", ErrNoToken
	}
	return reply.Token, nil
}
