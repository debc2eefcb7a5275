// Package retry wraps an operation with bounded retries, exponential backoff,
// and a hard timeout per attempt. The executor never substitutes results: on
// exhaustion it re-raises the last observed error and lets the caller decide
// what to do with it.
package retry

import (
	"context"
	"fmt"
	"time"

	"trendpulse/internal/logger"
)

// Options configures a Do invocation.
type Options struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// PerAttemptTimeout bounds each individual attempt. Exceeding it is
	// treated like any other attempt failure.
	PerAttemptTimeout time.Duration
	// BackoffUnit is the base wait between attempts; attempt i (0-indexed)
	// waits BackoffUnit * 2^i after failing. Defaults to one second.
	// Tests shrink it to keep runs fast.
	BackoffUnit time.Duration
}

// DefaultOptions returns the executor defaults used by the orchestration layer.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:       3,
		PerAttemptTimeout: 30 * time.Second,
		BackoffUnit:       time.Second,
	}
}

// Do runs op until it succeeds or MaxAttempts failures accumulate. Each
// attempt gets its own timeout-bounded context. Between failed attempts Do
// waits 1s, 2s, 4s, ... (scaled by BackoffUnit); there is no wait after the
// final attempt. The last error is returned on exhaustion.
func Do[T any](ctx context.Context, opts Options, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = time.Second
	}

	var lastErr error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return zero, lastErr
		}

		attemptCtx := ctx
		cancel := func() {}
		if opts.PerAttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, opts.PerAttemptTimeout)
		}
		result, err := op(attemptCtx)
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warn("attempt failed", "attempt", attempt+1, "max_attempts", opts.MaxAttempts, "error", err.Error())

		if attempt < opts.MaxAttempts-1 {
			wait := opts.BackoffUnit << uint(attempt)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, lastErr
			}
		}
	}

	return zero, fmt.Errorf("all %d attempts failed: %w", opts.MaxAttempts, lastErr)
}
