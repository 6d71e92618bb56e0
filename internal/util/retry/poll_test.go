package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

func TestPoll_ImmediateSuccess(t *testing.T) {
	t.Parallel()
	logger := &recordingLogger{}
	calls := 0

	start := time.Now()
	got, err := Poll(context.Background(), Policy{
		RetryInterval: time.Second,
		Timeout:       time.Minute,
	}, func(context.Context) (string, error) {
		calls++
		return "ready", nil
	}, WithLogger(logger))

	require.NoError(t, err)
	assert.Equal(t, "ready", got)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "must not sleep on first success")
	assert.Zero(t, logger.count(), "must not log on first success")
}

func TestPoll_BoundedRetry(t *testing.T) {
	t.Parallel()
	const failures = 3
	interval := 20 * time.Millisecond
	failed := 0

	start := time.Now()
	got, err := Poll(context.Background(), Policy{
		RetryInterval: interval,
		Timeout:       5 * time.Second,
	}, func(context.Context) (int, error) {
		if failed < failures {
			failed++
			return 0, errors.New("not yet")
		}
		return 42, nil
	}, WithLogger(&recordingLogger{}))

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, failures, failed)
	assert.GreaterOrEqual(t, time.Since(start), failures*interval)
}

func TestPoll_Timeout(t *testing.T) {
	t.Parallel()
	timeout := 150 * time.Millisecond
	interval := 40 * time.Millisecond
	lastErr := errors.New("still creating")

	start := time.Now()
	_, err := Poll(context.Background(), Policy{
		Description:   "cluster db-1",
		RetryInterval: interval,
		Timeout:       timeout,
	}, func(context.Context) (struct{}, error) {
		return struct{}{}, lastErr
	}, WithLogger(&recordingLogger{}))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, lastErr, "timeout must carry the last failure")
	assert.NotErrorIs(t, err, ErrInterrupted)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "cluster db-1", timeoutErr.Description)
	assert.Greater(t, timeoutErr.Attempts, 1)

	assert.GreaterOrEqual(t, elapsed, timeout)
	// One retry interval past the deadline at most, plus scheduling slack.
	assert.Less(t, elapsed, timeout+2*interval)
}

func TestPoll_CancellationFromOperation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := &recordingLogger{}
	attempts := 0

	start := time.Now()
	_, err := Poll(ctx, Policy{
		RetryInterval: 10 * time.Millisecond,
		LogInterval:   time.Hour,
		Timeout:       time.Hour,
	}, func(ctx context.Context) (int, error) {
		attempts++
		if attempts == 2 {
			cancel()
			return 0, ctx.Err()
		}
		return 0, errors.New("not yet")
	}, WithLogger(logger))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 2, attempts)
	assert.Less(t, time.Since(start), time.Second)
	assert.Zero(t, logger.count())
}

func TestPoll_CanceledErrorWithoutContext(t *testing.T) {
	t.Parallel()
	attempts := 0

	_, err := Poll(context.Background(), Policy{
		RetryInterval: time.Millisecond,
		Timeout:       time.Hour,
	}, func(context.Context) (int, error) {
		attempts++
		return 0, fmt.Errorf("describe cluster: %w", context.Canceled)
	}, WithLogger(&recordingLogger{}))

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 1, attempts, "cancellation must never be retried")
}

func TestPoll_CancellationDuringSleep(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Poll(ctx, Policy{
		RetryInterval: time.Hour,
		Timeout:       2 * time.Hour,
	}, func(context.Context) (int, error) {
		return 0, errors.New("not yet")
	}, WithLogger(&recordingLogger{}))

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPoll_LogCadence(t *testing.T) {
	t.Parallel()
	logger := &recordingLogger{}
	const failures = 5
	failed := 0

	_, err := Poll(context.Background(), Policy{
		RetryInterval: 10 * time.Millisecond,
		Timeout:       5 * time.Second,
	}, func(context.Context) (int, error) {
		if failed < failures {
			failed++
			return 0, errors.New("pending")
		}
		return 1, nil
	}, WithLogger(logger))

	require.NoError(t, err)
	// The first failure happens before the first checkpoint; every later one
	// may fire at most once.
	assert.GreaterOrEqual(t, logger.count(), 1)
	assert.LessOrEqual(t, logger.count(), failures-1)
}

func TestPoll_AttemptHook(t *testing.T) {
	t.Parallel()
	var seen []int
	calls := 0

	_, err := Poll(context.Background(), Policy{
		RetryInterval: time.Millisecond,
		Timeout:       time.Second,
	}, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("pending")
		}
		return calls, nil
	}, WithAttemptHook(func(attempt int, _ error) {
		seen = append(seen, attempt)
	}), WithLogger(&recordingLogger{}))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"valid", Policy{RetryInterval: time.Second, Timeout: time.Minute}, false},
		{"zero log interval allowed", Policy{RetryInterval: time.Second, LogInterval: 0, Timeout: time.Minute}, false},
		{"zero timeout", Policy{RetryInterval: time.Second}, true},
		{"negative log interval", Policy{RetryInterval: time.Second, LogInterval: -1, Timeout: time.Minute}, true},
		{"negative retry interval", Policy{RetryInterval: -time.Second, Timeout: time.Minute}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPoll_InvalidPolicy(t *testing.T) {
	t.Parallel()
	called := false
	_, err := Poll(context.Background(), Policy{}, func(context.Context) (int, error) {
		called = true
		return 0, nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestPolicy_LogIntervalDefaultsToRetryInterval(t *testing.T) {
	t.Parallel()
	p := Policy{RetryInterval: 7 * time.Second, Timeout: time.Minute}
	assert.Equal(t, 7*time.Second, p.logInterval())

	p.LogInterval = time.Minute
	assert.Equal(t, time.Minute, p.logInterval())
}
