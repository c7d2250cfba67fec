package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loan-affordability-engine/internal/models"
)

func validRecord() *models.ApplicantRecord {
	return &models.ApplicantRecord{
		ApplicantID: "APP001",
		Email:       "test@example.com",
		Profile: models.ApplicantProfile{
			Age:         30,
			Income:      50000,
			CreditScore: 750,
		},
	}
}

func TestValidateApplicantRecord_Valid(t *testing.T) {
	assert.NoError(t, models.ValidateApplicantRecord(validRecord()))
}

func TestValidateApplicantRecord_EmailIsOptional(t *testing.T) {
	r := validRecord()
	r.Email = ""
	assert.NoError(t, models.ValidateApplicantRecord(r))
}

func TestValidateApplicantRecord_EmptyApplicantID(t *testing.T) {
	r := validRecord()
	r.ApplicantID = "   "

	err := models.ValidateApplicantRecord(r)
	assert.ErrorIs(t, err, models.ErrEmptyApplicantID)
	assert.Contains(t, err.Error(), "applicant_id")
}

func TestValidateApplicantRecord_InvalidEmail(t *testing.T) {
	tests := []string{"not-an-email", "@example.com", "user@", "user@example", "user@.com"}

	for _, email := range tests {
		t.Run(email, func(t *testing.T) {
			r := validRecord()
			r.Email = email
			assert.ErrorIs(t, models.ValidateApplicantRecord(r), models.ErrInvalidEmail)
		})
	}
}

func TestValidateApplicantRecord_NegativeExistingEMI(t *testing.T) {
	r := validRecord()
	r.Profile.ExistingEMI = -1
	assert.ErrorIs(t, models.ValidateApplicantRecord(r), models.ErrNegativeExistingEMI)
}

func TestValidateApplicantRecord_DomainRangesAreNotChecked(t *testing.T) {
	r := validRecord()
	r.Profile.Age = 12
	r.Profile.CreditScore = 1200
	r.Profile.Income = -10
	assert.NoError(t, models.ValidateApplicantRecord(r))
}

func TestEligibilityResult_HasInstallment(t *testing.T) {
	emi := 1200.0
	assert.True(t, models.EligibilityResult{EMI: &emi}.HasInstallment())
	assert.False(t, models.EligibilityResult{Rule: models.RuleAgeRange}.HasInstallment())
}

func TestApplicantProfile_Terms(t *testing.T) {
	p := models.ApplicantProfile{RequestedLoan: 500000, InterestPercent: 12, TenureYears: 5}
	assert.Equal(t, models.LoanTerms{Principal: 500000, AnnualRatePercent: 12, Years: 5}, p.Terms())
}
