package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_cache_hits_total",
			Help: "Total number of cache hits by backend",
		},
		[]string{"backend"}, // "memory", "redis"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_cache_misses_total",
			Help: "Total number of cache misses by backend",
		},
		[]string{"backend"}, // "memory", "redis", "none"
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "encode", "decode"
	)

	// CacheEvictions counts entries dropped by the memory sweep.
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelhub_cache_evictions_total",
			Help: "Total number of expired entries removed by the memory cache sweep",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "travelhub_cache_entries",
			Help: "Entries held by the memory cache after the last sweep",
		},
	)
)
