package ratelimit

import (
	"context"

	"github.com/ariadng/sheets/pkg/client"
)

// Client decorates an API with a Limiter. Every operation acquires from the
// limiter before delegating inward and reports the outcome afterwards;
// failures are always re-raised unchanged.
type Client struct {
	inner   client.API
	limiter Limiter
}

var _ client.API = (*Client)(nil)

// Wrap decorates inner with l.
func Wrap(inner client.API, l Limiter) *Client {
	return &Client{inner: inner, limiter: l}
}

// Limiter returns the wrapped limiter for stats and reset access.
func (c *Client) Limiter() Limiter {
	return c.limiter
}

func (c *Client) Read(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	values, err := c.inner.Read(ctx, spreadsheetID, readRange)
	c.limiter.Record(err)
	return values, err
}

func (c *Client) Write(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}
	err := c.inner.Write(ctx, spreadsheetID, writeRange, values)
	c.limiter.Record(err)
	return err
}

func (c *Client) Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}
	err := c.inner.Append(ctx, spreadsheetID, appendRange, values)
	c.limiter.Record(err)
	return err
}

func (c *Client) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}
	err := c.inner.Clear(ctx, spreadsheetID, clearRange)
	c.limiter.Record(err)
	return err
}

func (c *Client) BatchRead(ctx context.Context, spreadsheetID string, ranges []string) ([]client.RangeValues, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	values, err := c.inner.BatchRead(ctx, spreadsheetID, ranges)
	c.limiter.Record(err)
	return values, err
}

func (c *Client) BatchWrite(ctx context.Context, spreadsheetID string, data []client.RangeValues) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}
	err := c.inner.BatchWrite(ctx, spreadsheetID, data)
	c.limiter.Record(err)
	return err
}

func (c *Client) BatchClear(ctx context.Context, spreadsheetID string, ranges []string) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}
	err := c.inner.BatchClear(ctx, spreadsheetID, ranges)
	c.limiter.Record(err)
	return err
}

func (c *Client) GetMetadata(ctx context.Context, spreadsheetID string) (*client.SpreadsheetMetadata, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	meta, err := c.inner.GetMetadata(ctx, spreadsheetID)
	c.limiter.Record(err)
	return meta, err
}
