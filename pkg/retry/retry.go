// Package retry provides a generic retry engine with configurable
// interval, exponential backoff, jitter, and per-attempt timeouts.
//
// Error kinds are plain sentinel errors matched with errors.Is, so a
// caller declares which failures are worth retrying by listing the
// sentinels its operation can fail with.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Error kinds produced by the engine itself. Operation errors are
// always propagated unchanged.
var (
	// ErrInvalidConfig indicates a malformed Policy or arguments.
	// Returned before any attempt is made.
	ErrInvalidConfig = errors.New("invalid retry config")

	// ErrAttemptTimeout indicates a single attempt exceeded
	// Policy.Timeout. It is subject to the retryable-kind check like
	// any other attempt failure.
	ErrAttemptTimeout = errors.New("operation timed out")
)

// Policy controls the retry schedule. A Policy is immutable once
// constructed; the zero value performs a single attempt with no delay.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt,
	// so MaxRetries+1 tries happen in total.
	MaxRetries int

	// Interval is the base delay between attempts.
	Interval time.Duration

	// Backoff grows the delay exponentially by Multiplier per retry.
	// When false every delay equals Interval.
	Backoff bool

	// Multiplier is the exponential growth factor. Must be >= 1 when
	// Backoff is set.
	Multiplier float64

	// Jitter in [0,1] spreads each delay uniformly across
	// [delay*(1-Jitter/2), delay*(1+Jitter/2)], floored at zero.
	Jitter float64

	// MaxDelay caps the computed delay before jitter is applied.
	// Zero means no cap.
	MaxDelay time.Duration

	// Timeout bounds a single attempt. Zero disables the bound.
	Timeout time.Duration
}

// Validate checks the policy invariants. Do calls this before the
// first attempt.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must be non-negative, got %d", ErrInvalidConfig, p.MaxRetries)
	}
	if p.Interval < 0 {
		return fmt.Errorf("%w: interval must be non-negative, got %s", ErrInvalidConfig, p.Interval)
	}
	if p.Jitter < 0 || p.Jitter > 1 {
		return fmt.Errorf("%w: jitter must be in [0,1], got %v", ErrInvalidConfig, p.Jitter)
	}
	if p.Backoff && p.Multiplier < 1 {
		return fmt.Errorf("%w: backoff multiplier must be >= 1, got %v", ErrInvalidConfig, p.Multiplier)
	}
	if p.MaxDelay < 0 {
		return fmt.Errorf("%w: max delay must be non-negative, got %s", ErrInvalidConfig, p.MaxDelay)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be non-negative, got %s", ErrInvalidConfig, p.Timeout)
	}
	return nil
}

// delay returns the pause before retry number attempt (1-based). rnd
// supplies the uniform draw for jitter; injectable for tests.
func (p Policy) delay(attempt int, rnd func() float64) time.Duration {
	d := float64(p.Interval)
	if p.Backoff {
		d = float64(p.Interval) * math.Pow(p.Multiplier, float64(attempt-1))
	}
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		d = d + d*p.Jitter*rnd() - d*p.Jitter/2
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// Do runs op until it succeeds, a non-retryable error occurs, or the
// policy's attempts are exhausted. retryOn lists the error kinds
// eligible for retry, matched with errors.Is; an empty list retries on
// any error.
//
// On failure Do returns the value the failing attempt returned
// alongside the error, so callers keep the last attempt's context
// (e.g. the raw response a selection step rejected) without resorting
// to a captured variable.
//
// Do holds no state across invocations; independent calls may run
// concurrently.
func Do[T any](ctx context.Context, policy Policy, retryOn []error, op func(context.Context) (T, error)) (T, error) {
	var last T
	if op == nil {
		return last, fmt.Errorf("%w: operation is nil", ErrInvalidConfig)
	}
	if err := policy.Validate(); err != nil {
		return last, err
	}

	tries := policy.MaxRetries + 1
	for attempt := 1; ; attempt++ {
		var err error
		last, err = runAttempt(ctx, policy.Timeout, op)
		if err == nil {
			return last, nil
		}
		if attempt == tries {
			return last, err
		}
		if !retryable(err, retryOn) {
			return last, err
		}
		if d := policy.delay(attempt, rand.Float64); d > 0 {
			select {
			case <-ctx.Done():
				return last, ctx.Err()
			case <-time.After(d):
			}
		}
	}
}

// runAttempt executes one attempt, racing op against the per-attempt
// timeout when one is configured. A timed-out op keeps running in its
// goroutine until it observes the cancelled context; its result is
// discarded.
func runAttempt[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return op(ctx)
	}

	type outcome struct {
		val T
		err error
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		v, err := op(attemptCtx)
		ch <- outcome{val: v, err: err}
	}()

	select {
	case out := <-ch:
		return out.val, out.err
	case <-attemptCtx.Done():
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w after %s", ErrAttemptTimeout, timeout)
	}
}

func retryable(err error, kinds []error) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
