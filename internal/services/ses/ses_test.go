package ses_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/ses"
)

func eligibleRecord() models.AssessmentRecord {
	emi, dti := 11122.22, 0.2724
	return models.AssessmentRecord{
		ApplicantID: "APP001",
		Email:       "rahul@example.com",
		Status:      models.AssessmentStatusEligible,
		Eligibility: models.EligibilityResult{Eligible: true, Reason: "Looks good, basic checks passed.", Rule: models.RulePassed, EMI: &emi, DTI: &dti},
		Quote:       models.MaxLoanQuote{MaxLoan: 1034000, ApproxEMI: 22999.5, Recommended: true},
	}
}

func TestBuildAssessmentNotificationParams(t *testing.T) {
	params := ses.BuildAssessmentNotificationParams(eligibleRecord())

	assert.Equal(t, "APP001", params.ApplicantID)
	assert.True(t, params.Eligible)
	assert.Equal(t, "11122.22", params.EMI)
	assert.Equal(t, "27.2", params.DTIPercent)
	assert.Equal(t, "1034000.00", params.MaxLoan)
	assert.Equal(t, "22999.50", params.ApproxEMI)
}

func TestBuildAssessmentNotificationParams_NoInstallment(t *testing.T) {
	record := models.AssessmentRecord{
		ApplicantID: "APP002",
		Eligibility: models.EligibilityResult{Reason: "Income too low for standard loans.", Rule: models.RuleMinIncome},
		Quote:       models.MaxLoanQuote{Message: "Profile doesn't meet criteria."},
	}
	params := ses.BuildAssessmentNotificationParams(record)

	assert.Empty(t, params.EMI)
	assert.Empty(t, params.DTIPercent)
	assert.False(t, params.Recommended)
}

func TestRenderAssessment(t *testing.T) {
	params := ses.BuildAssessmentNotificationParams(eligibleRecord())

	html, err := ses.RenderAssessmentHTML(params)
	require.NoError(t, err)
	assert.Contains(t, html, "APP001")
	assert.Contains(t, html, "Eligible")
	assert.Contains(t, html, "1034000.00")

	text := ses.RenderAssessmentText(params)
	assert.Contains(t, text, "Result: eligible")
	assert.Contains(t, text, "Debt-to-income: 27.2%")
	assert.Contains(t, text, "Maximum affordable loan: 1034000.00")
}

func TestRenderAssessment_NotRecommended(t *testing.T) {
	params := ses.AssessmentNotificationParams{ApplicantID: "APP002", Reason: "Credit score out of range."}

	text := ses.RenderAssessmentText(params)
	assert.Contains(t, text, "Result: not eligible")
	assert.Contains(t, text, "No loan recommended")
	assert.NotContains(t, text, "Monthly installment")

	assert.Contains(t, ses.AssessmentSubject(params), "Update on your loan application APP002")
}
