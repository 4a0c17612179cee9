package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	waitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_ratelimit_waits_total",
		Help: "Total number of requests that had to wait for the rate limiter",
	}, []string{"strategy"})

	waitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheets_ratelimit_wait_seconds",
		Help:    "Time requests spent waiting for the rate limiter",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"strategy"})

	adaptiveDelay = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sheets_ratelimit_adaptive_delay_seconds",
		Help: "Current extra per-call delay of the adaptive limiter",
	})

	tokensAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sheets_ratelimit_tokens_available",
		Help: "Tokens currently available in the token bucket",
	})
)
