package affordability

import (
	"math"

	"loan-affordability-engine/internal/models"
)

// Quote messages.
const (
	MessageNoLoanRecommended = "Profile doesn't meet criteria."
)

// EstimateMax returns the largest principal, rounded to a whole unit, whose
// installment keeps the applicant's debt-to-income ratio within the
// policy's maximum. Profiles below the minimum income or credit score get 0.
//
// The search halves [0, income*SearchIncomeMultiple] a fixed number of
// times and never exits early, so the result is deterministic.
func (e *Engine) EstimateMax(p models.ApplicantProfile) float64 {
	if p.CreditScore < e.policy.MinCreditScore || p.Income < e.policy.MinMonthlyIncome {
		return 0
	}

	low := 0.0
	high := p.Income * e.policy.SearchIncomeMultiple

	for i := 0; i < e.policy.SearchIterations; i++ {
		mid := (low + high) / 2
		emi := ComputeInstallment(mid, p.InterestPercent, p.TenureYears)
		if e.debtToIncome(p, emi) > e.policy.MaxDTI {
			high = mid
		} else {
			low = mid
		}
	}

	return math.Round(low)
}

// Quote estimates the maximum loan and the installment it would carry.
func (e *Engine) Quote(p models.ApplicantProfile) models.MaxLoanQuote {
	maxLoan := e.EstimateMax(p)
	if maxLoan <= 0 {
		return models.MaxLoanQuote{
			Recommended: false,
			Message:     MessageNoLoanRecommended,
		}
	}

	return models.MaxLoanQuote{
		MaxLoan:     maxLoan,
		ApproxEMI:   ComputeInstallment(maxLoan, p.InterestPercent, p.TenureYears),
		Recommended: true,
	}
}

// EstimateMax runs the max-loan search under the default policy.
func EstimateMax(p models.ApplicantProfile) float64 {
	return defaultEngine.EstimateMax(p)
}

// Quote runs Engine.Quote under the default policy.
func Quote(p models.ApplicantProfile) models.MaxLoanQuote {
	return defaultEngine.Quote(p)
}
