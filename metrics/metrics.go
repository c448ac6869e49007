// Package metrics provides Prometheus metrics for the context builder.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ContextRequestsTotal counts context build requests by outcome.
	ContextRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grounder",
			Name:      "context_requests_total",
			Help:      "Total number of context build requests",
		},
		[]string{"outcome"},
	)

	// ContextBuildDuration measures end-to-end context build latency.
	ContextBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "grounder",
			Name:      "context_build_duration_ms",
			Help:      "Duration of context builds in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 8),
		},
	)

	// CandidatesRetrieved observes how many candidates each search returned.
	CandidatesRetrieved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "grounder",
			Name:      "candidates_retrieved",
			Help:      "Distribution of candidate counts returned by the retrieval provider",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		},
	)

	// ContextTokens observes the estimated token size of assembled bundles.
	ContextTokens = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "grounder",
			Name:      "context_tokens",
			Help:      "Distribution of estimated token counts of assembled context bundles",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 8),
		},
	)

	// GateDeclinesTotal counts requests the confidence gate turned away.
	GateDeclinesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grounder",
			Name:      "gate_declines_total",
			Help:      "Total number of context requests declined by the confidence gate",
		},
	)

	// BudgetTrimsTotal counts bundles the token budget cut short.
	BudgetTrimsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grounder",
			Name:      "budget_trims_total",
			Help:      "Total number of context bundles trimmed by the token budget",
		},
	)
)

// ObserveContextRequest records one finished context build.
func ObserveContextRequest(outcome string, duration time.Duration) {
	ContextRequestsTotal.WithLabelValues(outcome).Inc()
	ContextBuildDuration.Observe(float64(duration.Milliseconds()))
}

// RecordCandidates records the candidate count of one search.
func RecordCandidates(count int) {
	CandidatesRetrieved.Observe(float64(count))
}

// RecordContextTokens records the estimated size of one assembled bundle.
func RecordContextTokens(tokens int) {
	ContextTokens.Observe(float64(tokens))
}

// IncDecline records one gate decline.
func IncDecline() {
	GateDeclinesTotal.Inc()
}

// IncTrim records one budget-trimmed bundle.
func IncTrim() {
	BudgetTrimsTotal.Inc()
}
