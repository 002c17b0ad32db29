package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type retryPolicy struct {
	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
}

var defaultPublishPolicy = retryPolicy{
	baseDelay:   500 * time.Millisecond,
	maxDelay:    10 * time.Second,
	maxAttempts: 5,
}

func publishWithRetry(ctx context.Context, pub Publisher, msg json.RawMessage, p retryPolicy) error {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := pub.Publish(ctx, msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == p.maxAttempts {
			break
		}

		backoff := p.baseDelay << (attempt - 1)
		if backoff > p.maxDelay {
			backoff = p.maxDelay
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return fmt.Errorf("publish canceled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("publish failed after %d attempts: %w", p.maxAttempts, lastErr)
}
