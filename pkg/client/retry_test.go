package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

// testPolicy keeps backoffs tiny so the suite stays fast.
func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Jitter:       5 * time.Millisecond,
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()

	if policy.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", policy.MaxAttempts)
	}
	if policy.InitialDelay != 1*time.Second {
		t.Errorf("InitialDelay = %v, want 1s", policy.InitialDelay)
	}
	if policy.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", policy.MaxDelay)
	}
	if policy.Jitter != 1*time.Second {
		t.Errorf("Jitter = %v, want 1s", policy.Jitter)
	}
}

func TestBackoffDelay_ExponentialGrowthAndCap(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     40 * time.Millisecond,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 10 * time.Millisecond},
		{1, 20 * time.Millisecond},
		{2, 40 * time.Millisecond},
		{3, 40 * time.Millisecond}, // capped
		{10, 40 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := backoffDelay(policy, tt.attempt); got != tt.want {
			t.Errorf("backoffDelay(attempt=%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoffDelay_JitterBounds(t *testing.T) {
	policy := RetryPolicy{
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Jitter:       20 * time.Millisecond,
	}

	for i := 0; i < 100; i++ {
		got := backoffDelay(policy, 0)
		if got < 10*time.Millisecond || got >= 30*time.Millisecond {
			t.Fatalf("backoffDelay = %v, want in [10ms, 30ms)", got)
		}
	}
}

func TestWithRetry_ImmediateSuccess(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), testPolicy(), "read", func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetry_SuccessAfterRetryableFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), testPolicy(), "read", func() error {
		calls++
		if calls < 3 {
			return &googleapi.Error{Code: 503, Message: "unavailable"}
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), testPolicy(), "read", func() error {
		calls++
		return &googleapi.Error{Code: 403, Message: "forbidden"}
	})

	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}

	var ce *ClassifiedError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassifiedError, got %T", err)
	}
	if ce.Category != CategoryPermission {
		t.Errorf("Category = %v, want %v", ce.Category, CategoryPermission)
	}
}

func TestWithRetry_ExhaustionSurfacesClassifiedError(t *testing.T) {
	cause := &googleapi.Error{Code: 500, Message: "internal"}
	calls := 0
	err := withRetry(context.Background(), testPolicy(), "write", func() error {
		calls++
		return cause
	})

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}

	var ce *ClassifiedError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassifiedError, got %T", err)
	}
	if !ce.Retryable {
		t.Error("retryable flag must reflect the code even after exhaustion")
	}

	// The original cause must remain reachable, not a summary.
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr != cause {
		t.Error("expected the original cause to be wrapped")
	}
}

func TestWithRetry_ElapsedCoversBackoff(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
	}

	calls := 0
	start := time.Now()
	err := withRetry(context.Background(), policy, "read", func() error {
		calls++
		if calls < 3 {
			return &googleapi.Error{Code: 500}
		}
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	// Two backoffs: 10ms + 20ms.
	if elapsed < 30*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 30ms", elapsed)
	}
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     1 * time.Second,
	}

	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := withRetry(ctx, policy, "read", func() error {
		calls++
		return &googleapi.Error{Code: 503}
	})

	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}
