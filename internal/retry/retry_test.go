package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoRetriesUntilSuccess(t *testing.T) {
	var attempts int
	err := Do(context.Background(), Policy{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond},
		func(ctx context.Context, attempt uint64) error {
			attempts++
			if attempts < 3 {
				return RetryableError(errors.New("transient"))
			}
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	var attempts int
	boom := errors.New("fatal")
	err := Do(context.Background(), DefaultPolicy(), func(ctx context.Context, attempt uint64) error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (non-retryable should not be retried)", attempts)
	}
}

func TestDoExhaustsMaxAttempts(t *testing.T) {
	var attempts int
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		func(ctx context.Context, attempt uint64) error {
			attempts++
			return RetryableError(errors.New("always fails"))
		})
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}
