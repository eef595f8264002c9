package capability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	out, err := Retry(context.Background(), testPolicy(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("%w: flaky", ErrProvider)
		}
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsBudget(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), testPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 0, ErrRateLimited
	})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 3, calls, "initial attempt plus MaxRetries")
}

func TestRetryPermanentErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), testPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("%w: unknown dish", ErrNotFound)
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Retry(ctx, RetryPolicy{MaxRetries: 5, Backoff: time.Hour}, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, ErrProvider
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation must win over backoff")
}

func TestRetryMapsAttemptTimeout(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 1, Backoff: time.Millisecond, CallTimeout: 5 * time.Millisecond}
	calls := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 2, calls, "timeouts are retryable")
}

func TestRetryCancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := Retry(ctx, testPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(ErrNotFound))
	assert.False(t, Retryable(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.True(t, Retryable(ErrTimeout))
	assert.True(t, Retryable(ErrRateLimited))
	assert.True(t, Retryable(ErrProvider))
	assert.True(t, Retryable(errors.New("unclassified transport failure")))
}
