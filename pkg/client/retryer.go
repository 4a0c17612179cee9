package client

import (
	"context"
)

// Retryer decorates an API with the retry engine. Every operation runs its
// own independent retry sequence; there is no circuit breaker and no shared
// cooldown between calls (pacing across calls is the rate limiter's job).
type Retryer struct {
	inner  API
	policy RetryPolicy
}

var _ API = (*Retryer)(nil)

// NewRetryer wraps inner with the given retry policy.
func NewRetryer(inner API, policy RetryPolicy) *Retryer {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	return &Retryer{inner: inner, policy: policy}
}

// Policy returns the configured retry policy.
func (r *Retryer) Policy() RetryPolicy {
	return r.policy
}

func (r *Retryer) Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	var out [][]interface{}
	err := withRetry(ctx, r.policy, "read", func() error {
		values, err := r.inner.Read(ctx, spreadsheetID, readRange)
		if err != nil {
			return err
		}
		out = values
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Retryer) Write(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	return withRetry(ctx, r.policy, "write", func() error {
		return r.inner.Write(ctx, spreadsheetID, writeRange, values)
	})
}

// Append is retried like every other operation when the failure code is
// retryable. A retried append that actually reached the server can duplicate
// rows; that is an accepted property of the remote service.
func (r *Retryer) Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error {
	return withRetry(ctx, r.policy, "append", func() error {
		return r.inner.Append(ctx, spreadsheetID, appendRange, values)
	})
}

func (r *Retryer) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	return withRetry(ctx, r.policy, "clear", func() error {
		return r.inner.Clear(ctx, spreadsheetID, clearRange)
	})
}

func (r *Retryer) BatchRead(ctx context.Context, spreadsheetID string, ranges []string) ([]RangeValues, error) {
	var out []RangeValues
	err := withRetry(ctx, r.policy, "batch_read", func() error {
		values, err := r.inner.BatchRead(ctx, spreadsheetID, ranges)
		if err != nil {
			return err
		}
		out = values
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Retryer) BatchWrite(ctx context.Context, spreadsheetID string, data []RangeValues) error {
	return withRetry(ctx, r.policy, "batch_write", func() error {
		return r.inner.BatchWrite(ctx, spreadsheetID, data)
	})
}

func (r *Retryer) BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error {
	return withRetry(ctx, r.policy, "batch_clear", func() error {
		return r.inner.BatchClear(ctx, spreadsheetID, ranges)
	})
}

func (r *Retryer) GetMetadata(ctx context.Context, spreadsheetID string) (*SpreadsheetMetadata, error) {
	var out *SpreadsheetMetadata
	err := withRetry(ctx, r.policy, "get_metadata", func() error {
		meta, err := r.inner.GetMetadata(ctx, spreadsheetID)
		if err != nil {
			return err
		}
		out = meta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
