// Package sheets is a resilient Google Sheets client built from stackable
// decorators: metrics recording, rate limiting, response caching and retry
// with exponential backoff, composed around a transport.
//
// Decorators wrap the transport bottom-up, so a call flows
// Metrics -> RateLimiter -> Cache -> Retry -> Transport, each layer free to
// short-circuit (cache hit), delay (rate limiter), retry (retry engine) or
// record (metrics) before delegating inward.
package sheets

import (
	"fmt"

	"github.com/ariadng/sheets/pkg/cache"
	"github.com/ariadng/sheets/pkg/client"
	"github.com/ariadng/sheets/pkg/metrics"
	"github.com/ariadng/sheets/pkg/ratelimit"
)

// Config selects and configures the decorator stack. It is accepted at
// construction and not re-validated thereafter.
type Config struct {
	// Transport performs the actual remote calls. Required.
	Transport client.API

	// Retry configures the retry engine. Zero value uses the defaults.
	Retry client.RetryPolicy

	// Cache enables the caching layer when non-nil.
	Cache *cache.Config

	// Limiter enables rate limiting when non-nil.
	Limiter ratelimit.Limiter

	// Collector enables metrics recording when non-nil.
	Collector *metrics.Collector
}

// Client is the composed decorated client. It exposes the full operation set
// plus accessors for each decorator's manual controls.
type Client struct {
	client.API

	cache     *cache.Client
	limiter   ratelimit.Limiter
	collector *metrics.Collector
}

// New builds the decorator stack around cfg.Transport.
func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}

	c := &Client{}

	var api client.API = client.NewRetryer(cfg.Transport, cfg.Retry)

	if cfg.Cache != nil {
		cached := cache.New(api, *cfg.Cache)
		c.cache = cached
		api = cached
	}

	if cfg.Limiter != nil {
		c.limiter = cfg.Limiter
		api = ratelimit.Wrap(api, cfg.Limiter)
	}

	if cfg.Collector != nil {
		c.collector = cfg.Collector
		api = metrics.Wrap(api, cfg.Collector)
	}

	c.API = api
	return c, nil
}

// Cache returns the cache store for manual control, or nil when caching is
// disabled.
func (c *Client) Cache() *cache.Store {
	if c.cache == nil {
		return nil
	}
	return c.cache.Store()
}

// Limiter returns the configured rate limiter, or nil.
func (c *Client) Limiter() ratelimit.Limiter {
	return c.limiter
}

// Metrics returns the metrics collector, or nil.
func (c *Client) Metrics() *metrics.Collector {
	return c.collector
}
