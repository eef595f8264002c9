package capability

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedTextCompletion wraps a TextCompletion port with a client-side
// rate limiter so bursts of concurrent runs do not trip provider throttles.
type RateLimitedTextCompletion struct {
	inner   TextCompletion
	limiter *rate.Limiter
}

// NewRateLimitedTextCompletion allows rps requests per second with the given
// burst size.
func NewRateLimitedTextCompletion(inner TextCompletion, rps float64, burst int) *RateLimitedTextCompletion {
	return &RateLimitedTextCompletion{inner: inner, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Complete waits for a limiter token, then delegates. A context cancelled
// while waiting is returned as-is so the orchestrator can distinguish
// cancellation from provider failure.
func (r *RateLimitedTextCompletion) Complete(ctx context.Context, req TextRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", ErrRateLimited
	}
	return r.inner.Complete(ctx, req)
}
