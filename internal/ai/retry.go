package ai

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	maxRetries = 3
	retryDelay = time.Second
)

// withRetry runs fn up to 1+maxRetries times with a constant delay between
// attempts. Each attempt runs under its own timeout so a stalled transport
// cannot hang the caller.
func withRetry[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var result T

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		value, err := fn(attemptCtx)
		if err != nil {
			return err
		}
		result = value
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return result, err
	}
	return result, nil
}
