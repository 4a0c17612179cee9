// Package metrics aggregates latency, outcome and throughput statistics for
// decorated spreadsheet calls, and mirrors them to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/ariadng/sheets/pkg/client"
)

// DefaultLatencyWindow is the number of recent samples kept for the sliding
// average latency.
const DefaultLatencyWindow = 100

// Snapshot is a point-in-time copy of the collector's counters. Counts are
// monotonically non-decreasing between resets.
type Snapshot struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	RetryCount         int64
	RateLimitHits      int64
	AverageLatency     time.Duration
	ErrorsByCode       map[string]int64
	RequestsByMethod   map[string]int64
}

// Summary holds the derived statistics. It is recomputed from the live
// counters on every call, never cached.
type Summary struct {
	TotalRequests  int64
	SuccessRate    float64
	AverageLatency time.Duration
	// Throughput is requests per second since construction or the last reset.
	Throughput    float64
	RateLimitHits int64
	Uptime        time.Duration
}

// Collector aggregates request statistics. One process-lifetime instance per
// metrics-wrapped client; safe for concurrent use.
type Collector struct {
	mu         sync.Mutex
	startedAt  time.Time
	windowSize int

	total         int64
	successful    int64
	failed        int64
	retries       int64
	rateLimitHits int64
	latencies     []time.Duration
	errorsByCode  map[string]int64
	byMethod      map[string]int64
}

// NewCollector creates a collector keeping windowSize latency samples.
// A non-positive windowSize uses DefaultLatencyWindow.
func NewCollector(windowSize int) *Collector {
	if windowSize <= 0 {
		windowSize = DefaultLatencyWindow
	}
	return &Collector{
		startedAt:    time.Now(),
		windowSize:   windowSize,
		errorsByCode: make(map[string]int64),
		byMethod:     make(map[string]int64),
	}
}

// RecordRequest folds one completed call into the counters. The latency
// enters a bounded sliding window; once full, the oldest sample is dropped.
// A failure increments the per-code counter, and the rate-limit hit counter
// when the failure classifies as a rate limit.
func (c *Collector) RecordRequest(method string, duration time.Duration, success bool, retries int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.byMethod[method]++
	c.retries += int64(retries)

	c.latencies = append(c.latencies, duration)
	if len(c.latencies) > c.windowSize {
		c.latencies = c.latencies[1:]
	}

	status := "success"
	if success {
		c.successful++
	} else {
		c.failed++
		status = "error"
		if err != nil {
			ce := client.Classify(err)
			c.errorsByCode[ce.Code]++
			if ce.Category == client.CategoryRateLimit {
				c.rateLimitHits++
				rateLimitHitsTotal.Inc()
			}
		}
	}

	requestsTotal.WithLabelValues(method, status).Inc()
	requestDuration.WithLabelValues(method).Observe(duration.Seconds())
	if retries > 0 {
		wrapperRetriesTotal.WithLabelValues(method).Add(float64(retries))
	}
}

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(map[string]int64, len(c.errorsByCode))
	for k, v := range c.errorsByCode {
		errs[k] = v
	}
	methods := make(map[string]int64, len(c.byMethod))
	for k, v := range c.byMethod {
		methods[k] = v
	}

	return Snapshot{
		TotalRequests:      c.total,
		SuccessfulRequests: c.successful,
		FailedRequests:     c.failed,
		RetryCount:         c.retries,
		RateLimitHits:      c.rateLimitHits,
		AverageLatency:     c.averageLatencyLocked(),
		ErrorsByCode:       errs,
		RequestsByMethod:   methods,
	}
}

// Summary derives success rate and throughput from the live counters.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	uptime := time.Since(c.startedAt)
	successRate := 0.0
	if c.total > 0 {
		successRate = float64(c.successful) / float64(c.total)
	}
	throughput := 0.0
	if uptime > 0 {
		throughput = float64(c.total) / uptime.Seconds()
	}

	return Summary{
		TotalRequests:  c.total,
		SuccessRate:    successRate,
		AverageLatency: c.averageLatencyLocked(),
		Throughput:     throughput,
		RateLimitHits:  c.rateLimitHits,
		Uptime:         uptime,
	}
}

// Reset clears every counter and restarts the uptime clock.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startedAt = time.Now()
	c.total = 0
	c.successful = 0
	c.failed = 0
	c.retries = 0
	c.rateLimitHits = 0
	c.latencies = nil
	c.errorsByCode = make(map[string]int64)
	c.byMethod = make(map[string]int64)
}

func (c *Collector) averageLatencyLocked() time.Duration {
	if len(c.latencies) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range c.latencies {
		sum += d
	}
	return sum / time.Duration(len(c.latencies))
}
