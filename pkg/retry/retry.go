// Package retry runs an operation with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy bounds a retry loop. Attempt i (0-based) waits BaseDelay * 2^i after
// a failure before the next attempt.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultPolicy is three attempts with a one second base delay.
var DefaultPolicy = Policy{Attempts: 3, BaseDelay: time.Second}

// ErrPermanent marks an error that must not be retried. Wrap it with
// Permanent.
var ErrPermanent = errors.New("permanent failure")

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() []error {
	return []error{p.err, ErrPermanent}
}

// Permanent wraps err so that Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// sleep is replaced in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do calls fn until it succeeds, returns a Permanent error, the context is
// done, or the attempts are used up. The last error is returned wrapped with
// the attempt count.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	attempts := max(p.Attempts, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		v, err := fn(ctx, i+1)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if errors.Is(err, ErrPermanent) {
			return zero, err
		}
		if i == attempts-1 {
			break
		}
		if err := sleep(ctx, p.BaseDelay<<i); err != nil {
			return zero, fmt.Errorf("retry interrupted after %d attempts: %w", i+1, errors.Join(err, lastErr))
		}
	}
	return zero, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
