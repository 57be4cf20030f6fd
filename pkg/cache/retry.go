package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by backends and [Open].
var (
	// ErrNetwork marks a remote backend that could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// RetryableError marks a transient backend failure. Its message is the
// message of Err.
type RetryableError struct{ Err error }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// backoff is a retry schedule: the delay doubles after every attempt.
type backoff struct {
	attempts int
	initial  time.Duration
}

var defaultBackoff = backoff{attempts: 3, initial: 50 * time.Millisecond}

// RetryWithBackoff runs fn up to three times, retrying only errors marked
// with [Retryable]. It returns the last error, or ctx.Err() when ctx ends
// while waiting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.run(ctx, fn)
}

func (b backoff) run(ctx context.Context, fn func() error) error {
	delay := b.initial
	err := fn()
	for n := 1; n < b.attempts && IsRetryable(err); n++ {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
