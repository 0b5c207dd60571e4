// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Object store metrics
var (
	// ObjectStoreOpsTotal tracks object store calls by operation and status
	ObjectStoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "object_store_operations_total",
			Help: "Total object store operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// ObjectStoreOpDuration tracks object store call latency in seconds
	ObjectStoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "object_store_operation_duration_seconds",
			Help:    "Object store operation duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)
)

// Submission pipeline metrics
var (
	// SubmissionsTotal tracks application submissions by outcome
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_submissions_total",
			Help: "Total application submissions by outcome",
		},
		[]string{"outcome"},
	)

	// SubmissionDocuments tracks how many documents a submission carried
	SubmissionDocuments = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "application_submission_documents",
			Help:    "Number of documents per accepted submission",
			Buckets: []float64{1, 2, 3, 5, 10},
		},
	)

	// SubmissionCleanupsTotal counts compensating cleanups after a failed submission
	SubmissionCleanupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "application_submission_cleanups_total",
			Help: "Total compensating cleanups run after failed submissions",
		},
	)

	// SubmissionCleanupFailures counts object deletions that failed during cleanup
	SubmissionCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "application_submission_cleanup_failures_total",
			Help: "Total object deletions that failed during compensating cleanup",
		},
	)
)

// Auth metrics
var (
	// AuthFailuresTotal tracks rejected requests by reason
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total authentication/authorization failures by reason",
		},
		[]string{"reason"},
	)

	// RateLimitedTotal counts requests rejected by the rate limiter
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total requests rejected by the rate limiter",
		},
	)
)
