package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogapi_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheLookups counts post cache lookups by result ("hit", "miss", "error").
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapi_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"result"})

	// UpdateConflicts counts optimistic concurrency conflicts by outcome.
	UpdateConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapi_update_conflicts_total",
		Help: "Total number of optimistic concurrency conflicts on update",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
