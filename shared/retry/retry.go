// Package retry runs an operation again with exponential backoff until it succeeds.
package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Do runs fn up to attempts times, waiting base, 2*base, 4*base... between failures.
// It stops early when ctx is cancelled and returns the last error otherwise.
func Do(ctx context.Context, logger *zap.Logger, attempts int, base time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		wait := base * time.Duration(1<<uint(attempt-1))
		logger.Warn("attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("wait", wait),
			zap.Error(lastErr))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
