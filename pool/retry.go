package pool

import (
	"context"
	"time"

	"github.com/utkarsh5026/poolkit/internal/algorithms"
)

// Retry calls fn until it succeeds or maxAttempts calls have been made,
// waiting a fixed delay between attempts. fn is always called at least once,
// so maxAttempts <= 1 means no retries.
//
// On success the result is returned immediately. When the budget runs out
// the error from the last attempt is returned as is; earlier errors are
// discarded. If ctx ends during a delay, ctx.Err() is returned.
//
// Example:
//
//	body, err := Retry(ctx, func(ctx context.Context) ([]byte, error) {
//	    return fetch(ctx, url)
//	}, 3, 100*time.Millisecond)
func Retry[R any](
	ctx context.Context,
	fn func(ctx context.Context) (R, error),
	maxAttempts int,
	delay time.Duration,
	opts ...RetryOption,
) (R, error) {
	cfg := &retryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	backoff := algorithms.NewBackoffStrategy(algorithms.BackoffFixed, delay)
	budget := maxAttempts

	var zero R
	for attempt := 0; ; attempt++ {
		budget--

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if budget <= 0 {
			return zero, err
		}

		if cfg.onRetry != nil {
			cfg.onRetry(attempt+1, err)
		}

		if waitErr := Sleep(ctx, backoff.NextDelay(attempt, err)); waitErr != nil {
			return zero, waitErr
		}
	}
}
