// Package metrics exposes Prometheus instruments for the check pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newscred_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newscred_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	// Check pipeline metrics
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newscred_checks_total",
			Help: "Total number of completed credibility checks",
		},
		[]string{"label", "claim_source"},
	)

	ClaimsPerCheck = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newscred_claims_per_check",
			Help:    "Number of claims verified per check",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	CheckLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newscred_check_duration_seconds",
			Help:    "End-to-end check latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// Collaborator metrics
	FactCheckCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newscred_factcheck_calls_total",
			Help: "Total number of claim verification calls",
		},
		[]string{"outcome"}, // outcome: match, empty, error, timeout
	)

	FactCheckLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newscred_factcheck_duration_seconds",
			Help:    "Claim verification call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	PageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newscred_page_fetches_total",
			Help: "Total number of article page fetches",
		},
		[]string{"outcome"}, // outcome: ok, error
	)
)

// Outcome labels for FactCheckCalls.
const (
	OutcomeMatch   = "match"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// RecordFactCheck records one verification call.
func RecordFactCheck(outcome string, d time.Duration) {
	FactCheckCalls.WithLabelValues(outcome).Inc()
	FactCheckLatency.Observe(d.Seconds())
}

// RecordCheck records a completed check.
func RecordCheck(label, source string, claims int, d time.Duration) {
	ChecksTotal.WithLabelValues(label, source).Inc()
	ClaimsPerCheck.Observe(float64(claims))
	CheckLatency.Observe(d.Seconds())
}

// RecordPageFetch records an article fetch attempt.
func RecordPageFetch(err error) {
	if err != nil {
		PageFetches.WithLabelValues("error").Inc()
		return
	}
	PageFetches.WithLabelValues("ok").Inc()
}
