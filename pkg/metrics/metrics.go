package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus mirrors of the collector's counters.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_requests_total",
		Help: "Total spreadsheet requests by method and outcome",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheets_request_duration_seconds",
		Help:    "Request duration in seconds by method",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	wrapperRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_metrics_wrapper_retries_total",
		Help: "Retries performed by the metrics decorator's own retry loop",
	}, []string{"method"})

	rateLimitHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sheets_rate_limit_hits_total",
		Help: "Total failures classified as rate limits",
	})
)
