package query

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = 30 * time.Second
)

// RetryPolicy describes how a failed fetch is repeated. Retries counts the
// attempts made after the first one.
type RetryPolicy struct {
	Retries int
	// ShouldRetry decides per error; nil retries everything.
	ShouldRetry func(error) bool
	// Delay returns the wait before retry number attempt (0-based); nil uses
	// ExponentialDelay.
	Delay func(attempt int) time.Duration
}

// DefaultRetry retries a failed query three more times.
var DefaultRetry = RetryPolicy{Retries: 3}

// NoRetry fails on the first error. Mutations always use it.
var NoRetry = RetryPolicy{}

// ExponentialDelay doubles from one second and caps at thirty.
func ExponentialDelay(attempt int) time.Duration {
	d := baseRetryDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return d
}

func (p RetryPolicy) retryable(err error) bool {
	if p.ShouldRetry == nil {
		return true
	}
	return p.ShouldRetry(err)
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Delay == nil {
		return ExponentialDelay(attempt)
	}
	return p.Delay(attempt)
}

func retry[T any](ctx context.Context, c *Client, key Key, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}

		if ctx.Err() != nil || attempt >= policy.Retries || !policy.retryable(err) {
			return zero, err
		}

		wait := policy.delay(attempt)
		c.logger.Debug("Retrying query",
			zap.String(fieldKey, key.String()),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if werr := c.wait(ctx, wait); werr != nil {
			return zero, err
		}
	}
}
