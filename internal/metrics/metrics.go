// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RosterRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_rows_total",
			Help: "Roster rows seen by ingestion, by outcome",
		},
		[]string{"result"},
	)

	BatchCommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_batch_commits_total",
			Help: "Atomic write batches issued to the record store, by outcome",
		},
		[]string{"result"},
	)

	BatchOps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "store_batch_ops",
			Help:    "Operations per committed write batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	StudentsRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "students_removed_total",
			Help: "Students removed with their reviews and account links",
		},
	)

	CredentialRevocationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credential_revocation_failures_total",
			Help: "Credential revocations that failed after the removal committed",
		},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_aggregation_duration_seconds",
			Help:    "Time to aggregate one team's reviews for a sprint",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReviewRemindersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "review_reminders_total",
			Help: "Pending-review reminders handed to the notifier",
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
