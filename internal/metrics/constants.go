package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameEligibilityDecisions = "eligibility_decisions_total"
	MetricNameMaxLoanQuotes        = "max_loan_quotes_total"
	MetricNameMaxLoanAmount        = "max_loan_amount"
	MetricNameQuoteCacheLookups    = "max_loan_quote_cache_lookups_total"
	MetricNameBatchApplicants      = "batch_applicants_total"
	MetricNameBatchRowErrors       = "batch_row_errors_total"
	MetricNameBatchDuration        = "batch_assessment_duration_seconds"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextEligibilityDecisions = "Total number of eligibility evaluations by outcome and deciding rule"
	HelpTextMaxLoanQuotes        = "Total number of max-loan quotes by recommendation"
	HelpTextMaxLoanAmount        = "Distribution of recommended maximum loan amounts"
	HelpTextQuoteCacheLookups    = "Total number of max-loan quote cache lookups by result"
	HelpTextBatchApplicants      = "Total number of applicants assessed in batches by source and status"
	HelpTextBatchRowErrors       = "Total number of batch rows rejected before assessment"
	HelpTextBatchDuration        = "Batch assessment latency in seconds"
)

// Label names
const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatus      = "status"
	LabelOutcome     = "outcome"
	LabelRule        = "rule"
	LabelRecommended = "recommended"
	LabelResult      = "result"
	LabelSource      = "source"
)

// Label values
const (
	OutcomeEligible    = "eligible"
	OutcomeNotEligible = "not_eligible"
	CacheHit           = "hit"
	CacheMiss          = "miss"
)

// HTTPLatencyBuckets spans 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// LoanAmountBuckets spans 10 thousand to 100 million.
var LoanAmountBuckets = []float64{1e4, 5e4, 1e5, 5e5, 1e6, 2.5e6, 5e6, 1e7, 2.5e7, 5e7, 1e8}
