package utils

import (
	"context"
	"errors"
	"time"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/cenkalti/backoff/v4"
)

// Retry runs fn and retries it up to retries more times, waiting a constant
// interval between attempts. models.ErrNotFound is final and never retried.
// The last error is returned once the attempts are exhausted.
func Retry[T any](ctx context.Context, retries int, wait time.Duration, fn func() (T, error)) (T, error) {
	if retries < 0 {
		retries = 0
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(wait), uint64(retries)),
		ctx,
	)

	return backoff.RetryWithData(func() (T, error) {
		result, err := fn()
		if err != nil && errors.Is(err, models.ErrNotFound) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, policy)
}

// Sleep blocks for d, returning early with the context error if ctx is done first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
