package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/pkg/retry"
)

var (
	errTransient = errors.New("transient failure")
	errFatal     = errors.New("fatal failure")
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 5}, nil,
		func(ctx context.Context) (string, error) {
			calls++
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls, "no further attempts after success")
}

func TestDo_AlwaysFailingInvokedMaxRetriesPlusOne(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		calls := 0
		_, err := retry.Do(context.Background(), retry.Policy{MaxRetries: n}, []error{errTransient},
			func(ctx context.Context) (int, error) {
				calls++
				return 0, errTransient
			})

		assert.ErrorIs(t, err, errTransient, "final error is the last attempt's")
		assert.Equal(t, n+1, calls, "maxRetries=%d", n)
	}
}

func TestDo_NonRetryableInvokedOnce(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 10}, []error{errTransient},
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errFatal
		})

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, calls, "non-retryable kinds propagate without retry")
}

func TestDo_SucceedsOnAttemptK(t *testing.T) {
	const k = 3
	calls := 0
	got, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 5}, []error{errTransient},
		func(ctx context.Context) (int, error) {
			calls++
			if calls < k {
				return 0, errTransient
			}
			return 42, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, k, calls)
}

func TestDo_EmptyKindSetRetriesAnyError(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 2}, nil,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errFatal
		})

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 3, calls)
}

func TestDo_WrappedErrorMatchesKind(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 1}, []error{errTransient},
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.Join(errors.New("attempt context"), errTransient)
		})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls, "kinds match through wrapping")
}

func TestDo_InvalidJitterFailsBeforeAnyAttempt(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), retry.Policy{Jitter: 2}, nil,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, nil
		})

	assert.ErrorIs(t, err, retry.ErrInvalidConfig)
	assert.Zero(t, calls)
}

func TestDo_InvalidPolicyFields(t *testing.T) {
	tests := []struct {
		name   string
		policy retry.Policy
	}{
		{"negative max retries", retry.Policy{MaxRetries: -1}},
		{"negative interval", retry.Policy{Interval: -time.Second}},
		{"negative jitter", retry.Policy{Jitter: -0.1}},
		{"multiplier below one", retry.Policy{Backoff: true, Multiplier: 0.5}},
		{"negative max delay", retry.Policy{MaxDelay: -time.Second}},
		{"negative timeout", retry.Policy{Timeout: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := retry.Do(context.Background(), tt.policy, nil,
				func(ctx context.Context) (int, error) {
					calls++
					return 0, nil
				})
			assert.ErrorIs(t, err, retry.ErrInvalidConfig)
			assert.Zero(t, calls)
		})
	}
}

func TestDo_NilOperation(t *testing.T) {
	_, err := retry.Do[int](context.Background(), retry.Policy{}, nil, nil)
	assert.ErrorIs(t, err, retry.ErrInvalidConfig)
}

func TestDo_AttemptTimeout(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), retry.Policy{Timeout: 10 * time.Millisecond}, nil,
		func(ctx context.Context) (int, error) {
			calls++
			select {
			case <-time.After(time.Second):
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		})

	assert.ErrorIs(t, err, retry.ErrAttemptTimeout)
	assert.Equal(t, 1, calls)
}

func TestDo_TimeoutIsRetryableWhenListed(t *testing.T) {
	calls := 0
	got, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 2, Timeout: 10 * time.Millisecond},
		[]error{retry.ErrAttemptTimeout},
		func(ctx context.Context) (int, error) {
			calls++
			if calls == 1 {
				time.Sleep(200 * time.Millisecond)
				return 0, nil
			}
			return 7, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 2, calls)
}

func TestDo_ReturnsLastAttemptValueOnFailure(t *testing.T) {
	type attempt struct{ seq int }

	calls := 0
	last, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 2}, []error{errTransient},
		func(ctx context.Context) (attempt, error) {
			calls++
			return attempt{seq: calls}, errTransient
		})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, last.seq, "failure carries the last attempt's value")
}

func TestDo_ContextCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := retry.Do(ctx, retry.Policy{MaxRetries: 5, Interval: time.Minute}, nil,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errTransient
		})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_IndependentCallsShareNoState(t *testing.T) {
	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 3}, []error{errTransient},
				func(ctx context.Context) (int, error) {
					return 0, errTransient
				})
			done <- err
		}()
	}

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, <-done, errTransient)
	}
}
