// Package affordability computes loan installments, eligibility verdicts and
// maximum affordable principals. Everything here is a pure function of its
// inputs and safe for concurrent use.
package affordability

// Default underwriting thresholds.
const (
	DefaultMinAge               = 18
	DefaultMaxAge               = 65
	DefaultMinValidCreditScore  = 300
	DefaultMaxValidCreditScore  = 900
	DefaultMinMonthlyIncome     = 8000.0
	DefaultMinCreditScore       = 600
	DefaultMaxDTI               = 0.5
	DefaultSearchIncomeMultiple = 200.0
	DefaultSearchIterations     = 60
)

// Policy holds the thresholds used by the eligibility rules and the
// max-loan search.
type Policy struct {
	MinAge int
	MaxAge int

	// Bureau score domain. Scores outside it are rejected as malformed.
	MinValidCreditScore int
	MaxValidCreditScore int

	MinMonthlyIncome float64
	MinCreditScore   int
	MaxDTI           float64

	// Upper bound of the max-loan search, as a multiple of monthly income.
	SearchIncomeMultiple float64
	// Number of halvings of the search interval. Never fewer than
	// DefaultSearchIterations.
	SearchIterations int
}

// DefaultPolicy returns the standard underwriting policy.
func DefaultPolicy() Policy {
	return Policy{
		MinAge:               DefaultMinAge,
		MaxAge:               DefaultMaxAge,
		MinValidCreditScore:  DefaultMinValidCreditScore,
		MaxValidCreditScore:  DefaultMaxValidCreditScore,
		MinMonthlyIncome:     DefaultMinMonthlyIncome,
		MinCreditScore:       DefaultMinCreditScore,
		MaxDTI:               DefaultMaxDTI,
		SearchIncomeMultiple: DefaultSearchIncomeMultiple,
		SearchIterations:     DefaultSearchIterations,
	}
}

// WithSearchIncomeMultiple returns a copy of the policy with a different
// search upper bound. Non-positive values keep the current multiple.
func (p Policy) WithSearchIncomeMultiple(multiple float64) Policy {
	if multiple > 0 {
		p.SearchIncomeMultiple = multiple
	}
	return p
}

func (p Policy) normalized() Policy {
	if p.SearchIncomeMultiple <= 0 {
		p.SearchIncomeMultiple = DefaultSearchIncomeMultiple
	}
	if p.SearchIterations < DefaultSearchIterations {
		p.SearchIterations = DefaultSearchIterations
	}
	return p
}
