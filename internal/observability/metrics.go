// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfeed_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusfeed_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CounterMutations counts atomic counter updates by target and outcome.
	CounterMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfeed_counter_mutations_total",
		Help: "Total number of atomic counter mutations by target and outcome",
	}, []string{"target", "outcome"})

	// PollTotalDrift counts votes whose option increment landed but whose
	// poll total increment failed.
	PollTotalDrift = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusfeed_poll_total_drift_total",
		Help: "Total number of poll votes that left total_votes behind the option sum",
	})

	// PollTotalsRepaired counts polls corrected by reconciliation.
	PollTotalsRepaired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusfeed_poll_totals_repaired_total",
		Help: "Total number of polls whose total_votes was repaired",
	})

	// CacheLookups counts cache-aside lookups by cache name and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfeed_cache_lookups_total",
		Help: "Total number of cache lookups by cache and result",
	}, []string{"cache", "result"})

	// WalletTransactions counts ledger writes by kind and outcome.
	WalletTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfeed_wallet_transactions_total",
		Help: "Total number of wallet ledger operations by kind and outcome",
	}, []string{"kind", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordCounterMutation records the outcome of one counter update.
func RecordCounterMutation(target string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	CounterMutations.WithLabelValues(target, outcome).Inc()
}
