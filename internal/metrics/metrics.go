// Package metrics exposes Prometheus collectors for the HTTP surface and
// for underwriting decisions.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"loan-affordability-engine/internal/models"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	EligibilityDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEligibilityDecisions,
			Help: HelpTextEligibilityDecisions,
		},
		[]string{LabelOutcome, LabelRule},
	)

	MaxLoanQuotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMaxLoanQuotes,
			Help: HelpTextMaxLoanQuotes,
		},
		[]string{LabelRecommended},
	)

	MaxLoanAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameMaxLoanAmount,
			Help:    HelpTextMaxLoanAmount,
			Buckets: LoanAmountBuckets,
		},
	)

	QuoteCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameQuoteCacheLookups,
			Help: HelpTextQuoteCacheLookups,
		},
		[]string{LabelResult},
	)

	BatchApplicants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBatchApplicants,
			Help: HelpTextBatchApplicants,
		},
		[]string{LabelSource, LabelStatus},
	)

	BatchRowErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBatchRowErrors,
			Help: HelpTextBatchRowErrors,
		},
		[]string{LabelSource},
	)

	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameBatchDuration,
			Help:    HelpTextBatchDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelSource},
	)
)

// RecordEligibility counts one eligibility verdict.
func RecordEligibility(r models.EligibilityResult) {
	outcome := OutcomeNotEligible
	if r.Eligible {
		outcome = OutcomeEligible
	}
	EligibilityDecisions.WithLabelValues(outcome, string(r.Rule)).Inc()
}

// RecordQuote counts one max-loan quote and observes its amount when a
// loan is recommended.
func RecordQuote(q models.MaxLoanQuote) {
	MaxLoanQuotes.WithLabelValues(strconv.FormatBool(q.Recommended)).Inc()
	if q.Recommended {
		MaxLoanAmount.Observe(q.MaxLoan)
	}
}

// RecordCacheLookup counts a quote cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		QuoteCacheLookups.WithLabelValues(CacheHit).Inc()
		return
	}
	QuoteCacheLookups.WithLabelValues(CacheMiss).Inc()
}
