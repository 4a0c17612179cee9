package ratelimit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ariadng/sheets/internal/testutil"
	"github.com/ariadng/sheets/pkg/ratelimit"
)

// recordingLimiter captures the acquire/record sequence a decorated call
// produces.
type recordingLimiter struct {
	acquires   int
	recorded   []error
	acquireErr error
}

func (l *recordingLimiter) Acquire(ctx context.Context) error {
	l.acquires++
	return l.acquireErr
}

func (l *recordingLimiter) Record(err error) {
	l.recorded = append(l.recorded, err)
}

func TestClient_AcquiresBeforeEveryCall(t *testing.T) {
	transport := testutil.NewFakeTransport()
	limiter := &recordingLimiter{}
	c := ratelimit.Wrap(transport, limiter)
	ctx := context.Background()

	if _, err := c.Read(ctx, "sheet-1", "A1:B2"); err != nil {
		t.Fatal(err)
	}
	if err := c.Write(ctx, "sheet-1", "A1", [][]interface{}{{"v"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetMetadata(ctx, "sheet-1"); err != nil {
		t.Fatal(err)
	}

	if limiter.acquires != 3 {
		t.Errorf("acquires = %d, want 3", limiter.acquires)
	}
	if len(limiter.recorded) != 3 {
		t.Errorf("recorded outcomes = %d, want 3", len(limiter.recorded))
	}
	for i, err := range limiter.recorded {
		if err != nil {
			t.Errorf("recorded[%d] = %v, want nil", i, err)
		}
	}
}

func TestClient_AcquireFailureSkipsInnerCall(t *testing.T) {
	transport := testutil.NewFakeTransport()
	limiter := &recordingLimiter{acquireErr: context.Canceled}
	c := ratelimit.Wrap(transport, limiter)

	_, err := c.Read(context.Background(), "sheet-1", "A1:B2")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Read() error = %v, want context.Canceled", err)
	}
	if transport.TotalCalls() != 0 {
		t.Errorf("transport calls = %d, want 0", transport.TotalCalls())
	}
	if len(limiter.recorded) != 0 {
		t.Errorf("recorded outcomes = %d, want 0", len(limiter.recorded))
	}
}

func TestClient_ErrorsReRaisedUnchanged(t *testing.T) {
	transport := testutil.NewFakeTransport()
	cause := errors.New("quota exceeded")
	transport.FailWith("read", cause)

	limiter := &recordingLimiter{}
	c := ratelimit.Wrap(transport, limiter)

	_, err := c.Read(context.Background(), "sheet-1", "A1:B2")
	if !errors.Is(err, cause) {
		t.Fatalf("Read() error = %v, want original cause", err)
	}
	if len(limiter.recorded) != 1 || !errors.Is(limiter.recorded[0], cause) {
		t.Errorf("limiter did not observe the failure: %v", limiter.recorded)
	}
}
