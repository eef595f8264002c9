package capability

import (
	"context"
	"time"
)

// RetryPolicy bounds how often a failed port call is reattempted before the
// owning stage degrades to failed. These are product policy values, supplied
// by configuration rather than hard-coded.
type RetryPolicy struct {
	// MaxRetries is the number of reattempts after the first failure.
	MaxRetries int
	// Backoff is the delay before the first retry; it doubles per attempt.
	Backoff time.Duration
	// CallTimeout bounds each individual attempt. Zero means the caller's
	// context alone governs the deadline.
	CallTimeout time.Duration
}

// DefaultRetryPolicy mirrors the product defaults: two retries with a short
// doubling backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Backoff: 100 * time.Millisecond, CallTimeout: 10 * time.Second}
}

// Retry invokes fn until it succeeds, the retry budget is exhausted, the
// error is classified permanent, or the context is cancelled. Cancellation
// is honored between attempts and during backoff sleeps; an in-flight call
// receives the cancelled context and its result is discarded.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	backoff := policy.Backoff
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if policy.CallTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, policy.CallTimeout)
		}
		out, err := fn(attemptCtx)
		cancel()
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if attemptCtx.Err() == context.DeadlineExceeded {
			err = ErrTimeout
		}
		lastErr = err
		if !Retryable(err) || attempt == policy.MaxRetries {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return zero, lastErr
}
