// Package retry wraps github.com/sethvargo/go-retry into the single backoff
// policy shared by internal/httpclient (C2) and, through it, every TimeCamp
// API call: up to N attempts, exponential backoff with a base and a cap, and
// support for a caller-supplied override delay (used for the HTTP
// Retry-After header).
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy configures a retry run.
type Policy struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy matches spec.md §4.C2: 3 attempts, 1s base, capped at 30s.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
}

// RetryableError wraps an error to mark it as worth retrying. A function
// passed to Do must wrap any retryable failure with RetryableError(err);
// any other error returned stops the loop immediately.
func RetryableError(err error) error {
	if err == nil {
		return nil
	}
	return retry.RetryableError(err)
}

// overrideSignal, joined into a retryable error by WithOverrideDelay, forces
// the next backoff to be exactly delay (used when a response carries a
// Retry-After header) instead of the computed exponential value.
type overrideSignal struct {
	delay time.Duration
}

func (overrideSignal) Error() string { return "retry: delay override" }

// WithOverrideDelay wraps err as retryable and additionally pins the next
// backoff delay to d, bypassing the exponential schedule for that one retry.
func WithOverrideDelay(err error, d time.Duration) error {
	if err == nil {
		return nil
	}
	return retry.RetryableError(errors.Join(err, overrideSignal{delay: d}))
}

// Do runs fn under the given Policy, retrying while fn returns a
// RetryableError-wrapped error, until MaxAttempts is exhausted or ctx is
// cancelled. The final error (retryable or not) is returned unwrapped.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt uint64) error) error {
	backoff := retry.NewExponential(p.BaseDelay)
	backoff = retry.WithCappedDuration(p.MaxDelay, backoff)
	backoff = retry.WithMaxRetries(p.MaxAttempts-1, backoff)

	// A pending override replaces the next delay the schedule computes.
	var pending *time.Duration
	scheduled := backoff
	backoff = retry.BackoffFunc(func() (time.Duration, bool) {
		d, stop := scheduled.Next()
		if pending != nil {
			d, pending = *pending, nil
		}
		return d, stop
	})

	var attempt uint64
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}

		var ov overrideSignal
		if errors.As(err, &ov) {
			delay := ov.delay
			pending = &delay
		}
		return err
	})
}
