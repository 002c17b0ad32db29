package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"allgecare/internal/domain/entity"
)

const (
	measurementsKey = "allgecare:mediciones"
	cooldownPrefix  = "allgecare:refresh:"
)

type RedisRepo struct {
	client      *redis.Client
	cacheTTL    time.Duration
	cooldownTTL time.Duration
}

func NewRedisRepo(client *redis.Client, cacheTTL, cooldown time.Duration) *RedisRepo {
	return &RedisRepo{client: client, cacheTTL: cacheTTL, cooldownTTL: cooldown}
}

// GetMeasurements returns the cached payload, or nil on a miss.
func (r *RedisRepo) GetMeasurements(ctx context.Context) (*entity.Measurements, error) {
	raw, err := r.client.Get(ctx, measurementsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m entity.Measurements
	if err := json.Unmarshal(raw, &m); err != nil {
		// a corrupt entry is treated as a miss and overwritten later
		return nil, nil
	}
	return &m, nil
}

func (r *RedisRepo) SetMeasurements(ctx context.Context, m *entity.Measurements) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, measurementsKey, raw, r.cacheTTL).Err()
}

func (r *RedisRepo) InvalidateMeasurements(ctx context.Context) error {
	return r.client.Del(ctx, measurementsKey).Err()
}

// CooldownRemaining reports how long caller must wait before the next forced
// refresh. Zero means a refresh is allowed.
func (r *RedisRepo) CooldownRemaining(ctx context.Context, caller string) (time.Duration, error) {
	ttl, err := r.client.PTTL(ctx, cooldownPrefix+caller).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// MarkRefreshed starts the cooldown window for caller.
func (r *RedisRepo) MarkRefreshed(ctx context.Context, caller string) error {
	return r.client.Set(ctx, cooldownPrefix+caller, time.Now().UTC().Format(time.RFC3339Nano), r.cooldownTTL).Err()
}
