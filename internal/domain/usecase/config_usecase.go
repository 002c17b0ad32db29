package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/logger"
	"allgecare/pkg/utils"
)

// publishTimeout bounds the background publish of one config.updated event.
const publishTimeout = 30 * time.Second

type ConfigUseCase struct {
	API       ThresholdsAPI
	History   ThresholdHistoryRepo
	Publisher Publisher

	retry   retryPolicy
	pending sync.WaitGroup
}

func NewConfigUseCase(api ThresholdsAPI, history ThresholdHistoryRepo, pub Publisher) *ConfigUseCase {
	return &ConfigUseCase{
		API:       api,
		History:   history,
		Publisher: pub,
		retry:     defaultPublishPolicy,
	}
}

func (u *ConfigUseCase) Thresholds(ctx context.Context) (*entity.Thresholds, error) {
	return u.API.Thresholds(ctx)
}

// ListHistory lists accepted updates, newest first.
func (u *ConfigUseCase) ListHistory(ctx context.Context, limit int) ([]entity.ThresholdChange, error) {
	if u.History == nil {
		return nil, ErrNoData
	}
	changes, err := u.History.ListChanges(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list threshold changes: %w", err)
	}
	return changes, nil
}

// Update sends only the provided fields. Once the monitoring API accepted
// the change, history and event failures are logged but not returned. The
// config.updated event is published in the background; see Wait.
func (u *ConfigUseCase) Update(ctx context.Context, email string, upd entity.ThresholdsUpdate) (*entity.ConfigUpdatedMessage, error) {
	if upd.Empty() {
		return nil, ErrNothingToUpdate
	}

	confirmed, err := u.API.UpdateThresholds(ctx, upd.Payload())
	if err != nil {
		return nil, fmt.Errorf("update thresholds: %w", err)
	}
	applied := mergeConfirmed(upd, confirmed)

	msg := &entity.ConfigUpdatedMessage{
		ChangeID: uuid.New().String(),
		Email:    email,
		Update:   applied,
	}

	if u.History != nil {
		u.record(ctx, msg)
	}

	if u.Publisher != nil {
		body, err := utils.ToRawMessage(msg)
		if err != nil {
			logger.Errorf("encode config.updated %s: %v", msg.ChangeID, err)
		} else {
			u.pending.Add(1)
			go u.publish(context.WithoutCancel(ctx), msg.ChangeID, body)
		}
	}

	return msg, nil
}

func (u *ConfigUseCase) record(ctx context.Context, msg *entity.ConfigUpdatedMessage) {
	payload, err := json.Marshal(msg.Update)
	if err != nil {
		logger.Errorf("encode threshold change %s: %v", msg.ChangeID, err)
		return
	}
	change := &entity.ThresholdChange{
		ChangeID:  msg.ChangeID,
		Email:     msg.Email,
		Payload:   string(payload),
		CreatedAt: time.Now(),
	}
	if err := u.History.RecordChange(ctx, change); err != nil {
		logger.Errorf("record threshold change %s: %v", msg.ChangeID, err)
	}
}

// publish runs detached from the request so backoff never delays the reply.
func (u *ConfigUseCase) publish(ctx context.Context, changeID string, body json.RawMessage) {
	defer u.pending.Done()
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := publishWithRetry(ctx, u.Publisher, body, u.retry); err != nil {
		logger.Errorf("publish config.updated %s: %v", changeID, err)
	}
}

// Wait blocks until every background publish has finished.
func (u *ConfigUseCase) Wait() {
	u.pending.Wait()
}

// mergeConfirmed prefers the values echoed by the API over the submitted ones.
func mergeConfirmed(sent entity.ThresholdsUpdate, confirmed *entity.ThresholdsUpdate) entity.ThresholdsUpdate {
	if confirmed == nil {
		return sent
	}
	pick := func(c, s *float64) *float64 {
		if c != nil && s != nil {
			return c
		}
		return s
	}
	return entity.ThresholdsUpdate{
		PHMin:                pick(confirmed.PHMin, sent.PHMin),
		PHMax:                pick(confirmed.PHMax, sent.PHMax),
		TemperatureMin:       pick(confirmed.TemperatureMin, sent.TemperatureMin),
		TemperatureMax:       pick(confirmed.TemperatureMax, sent.TemperatureMax),
		AgitationRecommended: pick(confirmed.AgitationRecommended, sent.AgitationRecommended),
		Interval:             pick(confirmed.Interval, sent.Interval),
	}
}
