package capability

import "errors"

// Port error taxonomy. Providers wrap their native failures with one of
// these sentinels so the orchestrator's retry policy can classify them.
var (
	// ErrTimeout marks a call that exceeded the port's declared timeout.
	ErrTimeout = errors.New("capability timeout")

	// ErrRateLimited marks a provider-side throttle response.
	ErrRateLimited = errors.New("capability rate limited")

	// ErrNotFound marks a catalog query the provider could not resolve at
	// all (distinct from an empty result set).
	ErrNotFound = errors.New("capability not found")

	// ErrProvider marks any other provider-side failure, including
	// malformed output.
	ErrProvider = errors.New("capability provider error")
)

// Retryable reports whether the error is transient per the retry policy.
// SessionNotFound-class and not-found errors are permanent; everything
// wrapped in the timeout/rate-limit/provider sentinels may succeed on retry.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNotFound):
		return false
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrRateLimited), errors.Is(err, ErrProvider):
		return true
	default:
		// Unknown errors (e.g. unwrapped transport failures) are treated as
		// transient so the budget, not classification, bounds the damage.
		return true
	}
}
