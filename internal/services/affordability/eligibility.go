package affordability

import (
	"fmt"

	"loan-affordability-engine/internal/models"
)

// Fixed reason texts. Age and threshold reasons are rendered from the policy.
const (
	ReasonIncomeNotPositive     = "Income must be positive."
	ReasonCreditScoreOutOfRange = "Credit score out of range."
	ReasonIncomeTooLow          = "Income too low for standard loans."
	ReasonEligible              = "Looks good, basic checks passed."
)

// gate is one guard in the eligibility chain. Gates run in slice order and
// the first one that fails decides the verdict.
type gate struct {
	rule   models.RuleID
	fails  func(p models.ApplicantProfile) bool
	reason string
}

// Engine evaluates applicant profiles against a Policy.
type Engine struct {
	policy Policy
	gates  []gate
}

// NewEngine creates an engine for the given policy.
func NewEngine(policy Policy) *Engine {
	policy = policy.normalized()

	return &Engine{
		policy: policy,
		gates: []gate{
			{
				rule: models.RuleAgeRange,
				fails: func(p models.ApplicantProfile) bool {
					return p.Age < policy.MinAge || p.Age > policy.MaxAge
				},
				reason: fmt.Sprintf("Age outside acceptable range (%d-%d).", policy.MinAge, policy.MaxAge),
			},
			{
				rule: models.RuleIncomePositive,
				fails: func(p models.ApplicantProfile) bool {
					return p.Income <= 0
				},
				reason: ReasonIncomeNotPositive,
			},
			{
				rule: models.RuleCreditScoreRange,
				fails: func(p models.ApplicantProfile) bool {
					return p.CreditScore < policy.MinValidCreditScore || p.CreditScore > policy.MaxValidCreditScore
				},
				reason: ReasonCreditScoreOutOfRange,
			},
			{
				rule: models.RuleMinIncome,
				fails: func(p models.ApplicantProfile) bool {
					return p.Income < policy.MinMonthlyIncome
				},
				reason: ReasonIncomeTooLow,
			},
			{
				rule: models.RuleMinCreditScore,
				fails: func(p models.ApplicantProfile) bool {
					return p.CreditScore < policy.MinCreditScore
				},
				reason: fmt.Sprintf("Credit score below acceptable threshold (%d).", policy.MinCreditScore),
			},
		},
	}
}

// Policy returns the policy the engine applies.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate applies the eligibility rules to a profile. It never fails:
// every input yields a verdict with exactly one reason.
func (e *Engine) Evaluate(p models.ApplicantProfile) models.EligibilityResult {
	for _, g := range e.gates {
		if g.fails(p) {
			return models.EligibilityResult{
				Eligible: false,
				Reason:   g.reason,
				Rule:     g.rule,
			}
		}
	}

	emi := ComputeInstallment(p.RequestedLoan, p.InterestPercent, p.TenureYears)
	dti := e.debtToIncome(p, emi)

	if dti > e.policy.MaxDTI {
		return models.EligibilityResult{
			Eligible: false,
			Reason:   fmt.Sprintf("DTI too high. (%.1f%%)", dti*100),
			Rule:     models.RuleMaxDTI,
			EMI:      &emi,
			DTI:      &dti,
		}
	}

	return models.EligibilityResult{
		Eligible: true,
		Reason:   ReasonEligible,
		Rule:     models.RulePassed,
		EMI:      &emi,
		DTI:      &dti,
	}
}

// debtToIncome is the share of monthly income consumed by existing
// obligations plus the proposed installment.
func (e *Engine) debtToIncome(p models.ApplicantProfile, emi float64) float64 {
	return (p.ExistingEMI + emi) / p.Income
}

var defaultEngine = NewEngine(DefaultPolicy())

// Evaluate applies the default policy's eligibility rules.
func Evaluate(p models.ApplicantProfile) models.EligibilityResult {
	return defaultEngine.Evaluate(p)
}
