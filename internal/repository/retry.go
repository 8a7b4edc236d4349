package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/utils"
)

// ConflictRetry restarts a transactional unit of work after domain.ErrStoreConflict.
// Every attempt must open its own transaction so no read outlives a restart.
type ConflictRetry struct {
	MaxAttempts int
	// Backoff is the base delay: retry n waits n*Backoff plus up to one Backoff of jitter
	Backoff time.Duration
	// Sleep waits between attempts; nil uses a timer that honours ctx
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry runs before each retry with the conflict that caused it
	OnRetry func(attempt int, err error)
}

// Do runs fn until it succeeds, fails with anything but a store conflict,
// or the attempts are spent. Running out returns an error wrapping both
// domain.ErrTryAgain and the last conflict.
func (r ConflictRetry) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil || !errors.Is(err, domain.ErrStoreConflict) {
			return err
		}
		lastErr = err
		if attempt == attempts {
			break
		}

		if r.OnRetry != nil {
			r.OnRetry(attempt, err)
		}
		sleep := r.Sleep
		if sleep == nil {
			sleep = SleepContext
		}
		if err := sleep(ctx, r.delay(attempt)); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: gave up after %d attempts: %w", domain.ErrTryAgain, attempts, lastErr)
}

func (r ConflictRetry) delay(attempt int) time.Duration {
	if r.Backoff <= 0 {
		return 0
	}
	jitter := time.Duration(utils.RandomInt(0, int(r.Backoff/time.Millisecond))) * time.Millisecond
	return r.Backoff*time.Duration(attempt) + jitter
}

// SleepContext waits for d or until ctx is done
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
