package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Backoff configures WithExponentialBackoff.
type Backoff struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// InitialDelay is the pause before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps every pause.
	MaxDelay time.Duration
	// Multiplier grows the pause after each retry.
	Multiplier float64
}

// DefaultBackoff returns five retries starting at one second, doubling up to
// thirty seconds.
func DefaultBackoff() Backoff {
	return Backoff{
		MaxRetries:   5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
	}
}

// delay returns the pause before retry n (0-based).
func (b Backoff) delay(n int) time.Duration {
	d := float64(b.InitialDelay) * math.Pow(b.Multiplier, float64(n))
	if d > float64(b.MaxDelay) {
		return b.MaxDelay
	}
	return time.Duration(d)
}

// Option adjusts a Backoff.
type Option func(*Backoff)

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(n int) Option {
	return func(b *Backoff) { b.MaxRetries = n }
}

// WithInitialDelay sets the pause before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(b *Backoff) { b.InitialDelay = d }
}

// WithMaxDelay caps the pause between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(b *Backoff) { b.MaxDelay = d }
}

// WithExponentialBackoff retries operation through short transient faults of
// a single call, such as API throttling. Long waits on remote state belong to
// Poll.
//
// An error marked with Fatal ends the retries and is returned unwrapped.
// Cancellation during a pause returns an error matching ErrInterrupted.
func WithExponentialBackoff(ctx context.Context, operation func() error, opts ...Option) error {
	b := DefaultBackoff()
	for _, opt := range opts {
		opt(&b)
	}

	var lastErr error
	for n := 0; ; n++ {
		err := operation()
		if err == nil {
			return nil
		}
		var fatal *FatalError
		if errors.As(err, &fatal) {
			return fatal.Err
		}
		lastErr = err

		if n >= b.MaxRetries {
			return fmt.Errorf("operation failed after %d attempts: %w", n+1, lastErr)
		}
		if err := sleep(ctx, b.delay(n)); err != nil {
			return fmt.Errorf("%w after %d attempts: %w", ErrInterrupted, n+1, err)
		}
	}
}

// FatalError marks an error as not worth retrying.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks err as non-retryable. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err carries a Fatal mark.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
