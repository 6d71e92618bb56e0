package retry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	// ErrTimeout is matched by every error Poll returns when the policy's
	// timeout elapses.
	ErrTimeout = errors.New("timed out")

	// ErrInterrupted is matched by every error Poll returns when the context
	// is cancelled or the operation reports a cancellation.
	ErrInterrupted = errors.New("interrupted")
)

// Policy bounds a Poll call.
type Policy struct {
	// Description names what is being waited for in progress and error messages.
	Description string

	// RetryInterval is the fixed pause between failed attempts.
	RetryInterval time.Duration

	// LogInterval is the progress message cadence. Zero means RetryInterval.
	LogInterval time.Duration

	// Timeout is the total time budget measured from the first attempt.
	Timeout time.Duration
}

// Validate checks the policy invariants.
func (p Policy) Validate() error {
	if p.Timeout <= 0 {
		return fmt.Errorf("poll timeout must be positive, got %s", p.Timeout)
	}
	if p.RetryInterval < 0 {
		return fmt.Errorf("poll retry interval must not be negative, got %s", p.RetryInterval)
	}
	if p.LogInterval < 0 {
		return fmt.Errorf("poll log interval must not be negative, got %s", p.LogInterval)
	}
	return nil
}

func (p Policy) logInterval() time.Duration {
	if p.LogInterval == 0 {
		return p.RetryInterval
	}
	return p.LogInterval
}

func (p Policy) description() string {
	if p.Description == "" {
		return "operation"
	}
	return p.Description
}

// TimeoutError is returned by Poll when the deadline passes while the
// operation keeps failing. It matches ErrTimeout and unwraps to the last
// observed failure.
type TimeoutError struct {
	Description string
	Elapsed     time.Duration
	Attempts    int
	Last        error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s (%d attempts) waiting for %s: %v",
		e.Elapsed.Round(time.Millisecond), e.Attempts, e.Description, e.Last)
}

func (e *TimeoutError) Unwrap() []error {
	return []error{ErrTimeout, e.Last}
}

// Logger receives progress messages while Poll is waiting.
type Logger interface {
	Printf(format string, v ...any)
}

type pollConfig struct {
	logger    Logger
	onAttempt func(attempt int, err error)
}

// PollOption configures a Poll call.
type PollOption func(*pollConfig)

// WithLogger sets where progress messages go. Defaults to the standard logger.
func WithLogger(l Logger) PollOption {
	return func(c *pollConfig) {
		c.logger = l
	}
}

// WithAttemptHook registers a callback invoked after every attempt with the
// 1-based attempt number and the attempt's error (nil on success).
func WithAttemptHook(fn func(attempt int, err error)) PollOption {
	return func(c *pollConfig) {
		c.onAttempt = fn
	}
}

// Poll invokes operation until it succeeds and returns its value.
//
// A failing attempt is retried after policy.RetryInterval unless the
// deadline (start + policy.Timeout) has passed, in which case a
// *TimeoutError carrying the last failure is returned. Cancellation of ctx,
// or an operation error wrapping context.Canceled, is returned at once as
// ErrInterrupted and is never retried or reported as a timeout.
func Poll[T any](ctx context.Context, policy Policy, operation func(context.Context) (T, error), opts ...PollOption) (T, error) {
	var zero T

	if err := policy.Validate(); err != nil {
		return zero, err
	}

	cfg := &pollConfig{logger: log.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	desc := policy.description()
	start := time.Now()
	deadline := start.Add(policy.Timeout)
	logInterval := policy.logInterval()
	nextLog := start.Add(logInterval)

	for attempt := 1; ; attempt++ {
		value, err := operation(ctx)
		if cfg.onAttempt != nil {
			cfg.onAttempt(attempt, err)
		}
		if err == nil {
			return value, nil
		}

		if isCancellation(ctx, err) {
			return zero, interrupted(ctx, desc, err)
		}

		now := time.Now()
		if !now.Before(deadline) {
			return zero, &TimeoutError{
				Description: desc,
				Elapsed:     now.Sub(start),
				Attempts:    attempt,
				Last:        err,
			}
		}

		if !now.Before(nextLog) {
			cfg.logger.Printf("[Poll] Still waiting for %s after %s (attempt %d): %v",
				desc, now.Sub(start).Round(time.Second), attempt, err)
			nextLog = nextLog.Add(logInterval)
		}

		if err := sleep(ctx, policy.RetryInterval); err != nil {
			return zero, interrupted(ctx, desc, err)
		}
	}
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

func interrupted(ctx context.Context, desc string, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		err = cause
	}
	return fmt.Errorf("%w while waiting for %s: %w", ErrInterrupted, desc, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
