package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a remote backend that could not be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// backoff controls RetryWithBackoff.
type backoff struct {
	attempts int
	delay    time.Duration
}

var defaultBackoff = backoff{attempts: 3, delay: 200 * time.Millisecond}

// RetryWithBackoff calls fn up to three times, doubling the delay between
// attempts. Only errors wrapped with Retryable are retried.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.run(ctx, fn)
}

func (b backoff) run(ctx context.Context, fn func() error) error {
	delay := b.delay
	var lastErr error
	for i := 0; i < b.attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if lastErr = err; !IsRetryable(err) {
			return err
		}
		if i < b.attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
