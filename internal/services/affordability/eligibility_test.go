package affordability_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/affordability"
)

// mockProfile returns a profile that passes every rule, with overrides applied.
func mockProfile(overrides func(p *models.ApplicantProfile)) models.ApplicantProfile {
	p := models.ApplicantProfile{
		Age:             30,
		Income:          50000,
		ExistingEMI:     0,
		CreditScore:     750,
		RequestedLoan:   500000,
		TenureYears:     5,
		InterestPercent: 12,
	}
	if overrides != nil {
		overrides(&p)
	}
	return p
}

func TestEvaluate_Eligible(t *testing.T) {
	result := affordability.Evaluate(mockProfile(nil))

	assert.True(t, result.Eligible)
	assert.Equal(t, affordability.ReasonEligible, result.Reason)
	assert.Equal(t, models.RulePassed, result.Rule)
	require.NotNil(t, result.EMI)
	require.NotNil(t, result.DTI)
	assert.InDelta(t, affordability.ComputeInstallment(500000, 12, 5), *result.EMI, 1e-9)
	assert.InDelta(t, *result.EMI/50000, *result.DTI, 1e-12)
}

func TestEvaluate_Gates(t *testing.T) {
	tests := []struct {
		name     string
		override func(p *models.ApplicantProfile)
		rule     models.RuleID
		reason   string
	}{
		{"too young", func(p *models.ApplicantProfile) { p.Age = 17 }, models.RuleAgeRange, "Age outside acceptable range (18-65)."},
		{"too old", func(p *models.ApplicantProfile) { p.Age = 66 }, models.RuleAgeRange, "Age outside acceptable range (18-65)."},
		{"zero income", func(p *models.ApplicantProfile) { p.Income = 0 }, models.RuleIncomePositive, affordability.ReasonIncomeNotPositive},
		{"negative income", func(p *models.ApplicantProfile) { p.Income = -100 }, models.RuleIncomePositive, affordability.ReasonIncomeNotPositive},
		{"score below bureau range", func(p *models.ApplicantProfile) { p.CreditScore = 299 }, models.RuleCreditScoreRange, affordability.ReasonCreditScoreOutOfRange},
		{"score above bureau range", func(p *models.ApplicantProfile) { p.CreditScore = 901 }, models.RuleCreditScoreRange, affordability.ReasonCreditScoreOutOfRange},
		{"income below minimum", func(p *models.ApplicantProfile) { p.Income = 7999 }, models.RuleMinIncome, affordability.ReasonIncomeTooLow},
		{"score below threshold", func(p *models.ApplicantProfile) { p.CreditScore = 599 }, models.RuleMinCreditScore, "Credit score below acceptable threshold (600)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := affordability.Evaluate(mockProfile(tt.override))

			assert.False(t, result.Eligible)
			assert.Equal(t, tt.rule, result.Rule)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Nil(t, result.EMI, "gate failures carry no installment")
			assert.Nil(t, result.DTI, "gate failures carry no DTI")
		})
	}
}

func TestEvaluate_BoundariesPass(t *testing.T) {
	tests := []struct {
		name     string
		override func(p *models.ApplicantProfile)
	}{
		{"minimum age", func(p *models.ApplicantProfile) { p.Age = 18 }},
		{"maximum age", func(p *models.ApplicantProfile) { p.Age = 65 }},
		{"minimum income", func(p *models.ApplicantProfile) { p.Income = 8000; p.RequestedLoan = 10000 }},
		{"threshold score", func(p *models.ApplicantProfile) { p.CreditScore = 600 }},
		{"top of bureau range", func(p *models.ApplicantProfile) { p.CreditScore = 900 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := affordability.Evaluate(mockProfile(tt.override))
			assert.True(t, result.Eligible, result.Reason)
		})
	}
}

func TestEvaluate_FirstFailingRuleWins(t *testing.T) {
	tests := []struct {
		name     string
		override func(p *models.ApplicantProfile)
		rule     models.RuleID
	}{
		{"age before income", func(p *models.ApplicantProfile) { p.Age = 10; p.Income = -5 }, models.RuleAgeRange},
		{"income before score range", func(p *models.ApplicantProfile) { p.Income = -5; p.CreditScore = 200 }, models.RuleIncomePositive},
		{"score range before minimum income", func(p *models.ApplicantProfile) { p.Income = 5000; p.CreditScore = 1000 }, models.RuleCreditScoreRange},
		{"minimum income before score threshold", func(p *models.ApplicantProfile) { p.Income = 5000; p.CreditScore = 500 }, models.RuleMinIncome},
		{"score threshold before DTI", func(p *models.ApplicantProfile) { p.CreditScore = 550; p.RequestedLoan = 1e9 }, models.RuleMinCreditScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := affordability.Evaluate(mockProfile(tt.override))
			assert.False(t, result.Eligible)
			assert.Equal(t, tt.rule, result.Rule)
		})
	}

	result := affordability.Evaluate(mockProfile(func(p *models.ApplicantProfile) { p.Age = 10; p.Income = -5 }))
	assert.Equal(t, "Age outside acceptable range (18-65).", result.Reason)
	assert.NotContains(t, result.Reason, "Income")
}

func TestEvaluate_DTIBoundary(t *testing.T) {
	// Zero interest over one year: installment = loan / 12
	atLimit := mockProfile(func(p *models.ApplicantProfile) {
		p.Income = 10000
		p.InterestPercent = 0
		p.TenureYears = 1
		p.RequestedLoan = 60000
	})

	result := affordability.Evaluate(atLimit)
	assert.True(t, result.Eligible, "DTI of exactly 0.5 must pass")
	require.NotNil(t, result.DTI)
	assert.Equal(t, 0.5, *result.DTI)

	overLimit := atLimit
	overLimit.RequestedLoan = 61200

	result = affordability.Evaluate(overLimit)
	assert.False(t, result.Eligible)
	assert.Equal(t, models.RuleMaxDTI, result.Rule)
	assert.Equal(t, "DTI too high. (51.0%)", result.Reason)
	require.NotNil(t, result.EMI)
	require.NotNil(t, result.DTI)
	assert.InDelta(t, 5100, *result.EMI, 1e-9)
	assert.InDelta(t, 0.51, *result.DTI, 1e-12)
}

func TestEvaluate_ExistingEMICountsTowardDTI(t *testing.T) {
	profile := mockProfile(func(p *models.ApplicantProfile) {
		p.Income = 10000
		p.ExistingEMI = 2000
		p.InterestPercent = 0
		p.TenureYears = 1
		p.RequestedLoan = 36000
	})
	assert.True(t, affordability.Evaluate(profile).Eligible)

	profile.ExistingEMI = 2001
	assert.False(t, affordability.Evaluate(profile).Eligible)
}

func TestEvaluate_ZeroTenureYieldsZeroInstallment(t *testing.T) {
	result := affordability.Evaluate(mockProfile(func(p *models.ApplicantProfile) {
		p.TenureYears = 0
		p.ExistingEMI = 1000
	}))

	assert.True(t, result.Eligible)
	require.NotNil(t, result.EMI)
	assert.Equal(t, 0.0, *result.EMI)
	assert.InDelta(t, 0.02, *result.DTI, 1e-12)
}

func TestEngine_CustomPolicyRendersReasons(t *testing.T) {
	policy := affordability.DefaultPolicy()
	policy.MinAge = 21
	policy.MinCreditScore = 650

	engine := affordability.NewEngine(policy)

	result := engine.Evaluate(mockProfile(func(p *models.ApplicantProfile) { p.Age = 20 }))
	assert.Equal(t, "Age outside acceptable range (21-65).", result.Reason)

	result = engine.Evaluate(mockProfile(func(p *models.ApplicantProfile) { p.CreditScore = 640 }))
	assert.Equal(t, "Credit score below acceptable threshold (650).", result.Reason)
}

func TestEligibilityResult_JSONOmitsUncomputedFields(t *testing.T) {
	rejected := affordability.Evaluate(mockProfile(func(p *models.ApplicantProfile) { p.Age = 70 }))
	body, err := json.Marshal(rejected)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "emi")
	assert.NotContains(t, string(body), "dti")

	accepted := affordability.Evaluate(mockProfile(nil))
	body, err = json.Marshal(accepted)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"emi":`)
	assert.Contains(t, string(body), `"dti":`)
}
