// Package retry re-runs idempotent remote calls that failed for transient
// reasons, with jittered exponential backoff between attempts.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	"nathanbeddoewebdev/usersync/internal/domain"
)

// Predicate determines whether an error should be retried.
type Predicate func(error) bool

// Config controls retry behavior.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// OnRetry, if set, is called before sleeping ahead of the next attempt.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// DoValue executes fn with retries using the provided config. The value of
// the successful attempt is returned; on failure the zero value is returned.
func DoValue[T any](ctx context.Context, config Config, shouldRetry Predicate, fn func() (T, error)) (T, error) {
	var zero T
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if shouldRetry == nil {
		shouldRetry = IsRetryable
	}

	var err error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		var v T
		v, err = fn()
		if err == nil {
			return v, nil
		}
		if attempt == config.MaxAttempts || !shouldRetry(err) {
			return zero, err
		}

		delay := backoffDelay(config.BaseDelay, config.MaxDelay, attempt)
		if config.OnRetry != nil {
			config.OnRetry(attempt, delay, err)
		}
		if delay <= 0 {
			continue
		}
		if !sleep(ctx, delay) {
			return zero, ctx.Err()
		}
	}

	return zero, err
}

// IsRetryable determines whether an error is likely transient at the
// transport level.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || netErr.Temporary()
	}

	return false
}

// IsTransient extends IsRetryable with the remote service's own transient
// categories: throttling and server-side failures.
func IsTransient(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUnavailable) {
		return true
	}
	return IsRetryable(err)
}

func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := base << (attempt - 1)
	if max > 0 && delay > max {
		delay = max
	}

	jitterMax := int64(delay)
	if jitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(jitterMax + 1))
}

func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
