package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loan_backend"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EligibilityDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eligibility_decisions_total",
			Help:      "Eligibility evaluations by outcome.",
		},
		[]string{"approved"},
	)

	LoansCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loans_created_total",
			Help:      "Loans originated.",
		},
	)

	PaymentsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Loan payments applied.",
		},
	)

	IngestionRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestion_rows_total",
			Help:      "Seed rows processed by source and result.",
		},
		[]string{"source", "result"},
	)
)

// RecordEligibility counts one eligibility decision
func RecordEligibility(approved bool) {
	label := "false"
	if approved {
		label = "true"
	}
	EligibilityDecisions.WithLabelValues(label).Inc()
}
