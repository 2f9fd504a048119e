// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateLimitRejections counts requests rejected by the rate limiter, by route.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"route"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// VoteMutations counts vote ledger mutations by operation and outcome.
	VoteMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_vote_mutations_total",
		Help: "Total number of vote ledger mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quorum_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
