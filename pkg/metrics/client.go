package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ariadng/sheets/pkg/client"
	"github.com/ariadng/sheets/pkg/logging"
)

// The decorator's own retry loop. This exists purely so the collector sees
// accurate retry counts; it is configured separately from the retry engine
// and the two stay independent even when stacked.
const (
	wrapperAttempts = 3
	wrapperBackoff  = 100 * time.Millisecond
)

// Client decorates an API with outcome recording.
type Client struct {
	inner     client.API
	collector *Collector
	logger    zerolog.Logger
}

var _ client.API = (*Client)(nil)

// Wrap decorates inner, recording into collector.
func Wrap(inner client.API, collector *Collector) *Client {
	if collector == nil {
		collector = NewCollector(DefaultLatencyWindow)
	}
	return &Client{
		inner:     inner,
		collector: collector,
		logger:    logging.NewLogger("metrics"),
	}
}

// Collector returns the wrapped collector.
func (m *Client) Collector() *Collector {
	return m.collector
}

// do runs fn with the decorator's fixed 3-attempt linear-backoff loop and
// records the outcome. Only retryable-classified failures are re-attempted.
func (m *Client) do(ctx context.Context, method string, fn func() error) error {
	start := time.Now()
	retries := 0

	var err error
	for attempt := 1; attempt <= wrapperAttempts; attempt++ {
		err = fn()
		if err == nil {
			break
		}
		if !client.Classify(err).Retryable || attempt == wrapperAttempts {
			break
		}

		retries++
		backoff := time.Duration(attempt) * wrapperBackoff
		m.logger.Debug().
			Str("method", method).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Metrics wrapper retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			err = ctx.Err()
			m.collector.RecordRequest(method, time.Since(start), false, retries, err)
			return err
		case <-timer.C:
		}
	}

	m.collector.RecordRequest(method, time.Since(start), err == nil, retries, err)
	return err
}

func (m *Client) Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	var out [][]interface{}
	err := m.do(ctx, "read", func() error {
		values, err := m.inner.Read(ctx, spreadsheetID, readRange)
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

func (m *Client) Write(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	return m.do(ctx, "write", func() error {
		return m.inner.Write(ctx, spreadsheetID, writeRange, values)
	})
}

func (m *Client) Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error {
	return m.do(ctx, "append", func() error {
		return m.inner.Append(ctx, spreadsheetID, appendRange, values)
	})
}

func (m *Client) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	return m.do(ctx, "clear", func() error {
		return m.inner.Clear(ctx, spreadsheetID, clearRange)
	})
}

func (m *Client) BatchRead(ctx context.Context, spreadsheetID string, ranges []string) ([]client.RangeValues, error) {
	var out []client.RangeValues
	err := m.do(ctx, "batch_read", func() error {
		values, err := m.inner.BatchRead(ctx, spreadsheetID, ranges)
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

func (m *Client) BatchWrite(ctx context.Context, spreadsheetID string, data []client.RangeValues) error {
	return m.do(ctx, "batch_write", func() error {
		return m.inner.BatchWrite(ctx, spreadsheetID, data)
	})
}

func (m *Client) BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error {
	return m.do(ctx, "batch_clear", func() error {
		return m.inner.BatchClear(ctx, spreadsheetID, ranges)
	})
}

func (m *Client) GetMetadata(ctx context.Context, spreadsheetID string) (*client.SpreadsheetMetadata, error) {
	var out *client.SpreadsheetMetadata
	err := m.do(ctx, "get_metadata", func() error {
		meta, err := m.inner.GetMetadata(ctx, spreadsheetID)
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
