package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sheets_cache_hits_total",
		Help: "Total number of cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sheets_cache_misses_total",
		Help: "Total number of cache misses",
	})

	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sheets_cache_evictions_total",
		Help: "Total number of entries evicted at capacity",
	})

	cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sheets_cache_invalidations_total",
		Help: "Total number of entries removed by invalidation",
	})

	cacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sheets_cache_entries",
		Help: "Current number of cached entries",
	})
)
