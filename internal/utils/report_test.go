package utils_test

import (
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/utils"
)

func ptr(f float64) *float64 { return &f }

func TestWriteAssessmentReport(t *testing.T) {
	records := []models.AssessmentRecord{
		{
			ApplicantID: "APP001",
			Status:      models.AssessmentStatusEligible,
			Eligibility: models.EligibilityResult{
				Eligible: true,
				Reason:   "Looks good, basic checks passed.",
				Rule:     models.RulePassed,
				EMI:      ptr(11122.2222),
				DTI:      ptr(0.2224),
			},
			Quote: models.MaxLoanQuote{MaxLoan: 1234567, ApproxEMI: 27462.504, Recommended: true},
		},
		{
			ApplicantID: "APP002",
			Status:      models.AssessmentStatusNotEligible,
			Eligibility: models.EligibilityResult{
				Reason: "Income too low for standard loans.",
				Rule:   models.RuleMinIncome,
			},
			Quote: models.MaxLoanQuote{Message: "Profile doesn't meet criteria."},
		},
	}

	out, err := utils.WriteAssessmentReport(records)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, utils.ReportColumns, rows[0])
	assert.Equal(t, []string{"APP001", "eligible", "passed", "Looks good, basic checks passed.", "11122.22", "22.2", "1234567", "27462.50"}, rows[1])
	assert.Equal(t, []string{"APP002", "not_eligible", "min_income", "Income too low for standard loans.", "", "", "0", "0.00"}, rows[2])
}

func TestWriteAssessmentReport_Empty(t *testing.T) {
	out, err := utils.WriteAssessmentReport(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(utils.ReportColumns, ",")+"\n", string(out))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", utils.Money(0))
	assert.Equal(t, "2500.00", utils.Money(2500))
	assert.Equal(t, "10.13", utils.Money(10.125))
}

func TestMoney_NonFiniteIsBlank(t *testing.T) {
	assert.Equal(t, "", utils.Money(math.NaN()))
	assert.Equal(t, "", utils.Money(math.Inf(1)))
}

func TestWriteAssessmentReport_NonFiniteValuesAreBlank(t *testing.T) {
	records := []models.AssessmentRecord{{
		ApplicantID: "APP001",
		Status:      models.AssessmentStatusEligible,
		Eligibility: models.EligibilityResult{
			Eligible: true,
			Rule:     models.RulePassed,
			EMI:      ptr(math.NaN()),
			DTI:      ptr(math.NaN()),
		},
		Quote: models.MaxLoanQuote{MaxLoan: math.Inf(1), ApproxEMI: math.NaN()},
	}}

	var out []byte
	require.NotPanics(t, func() {
		var err error
		out, err = utils.WriteAssessmentReport(records)
		require.NoError(t, err)
	})

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"", "", "", ""}, rows[1][4:])
}
