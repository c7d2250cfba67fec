// Package models defines the data structures for the loan affordability engine.
package models

import (
	"strings"
)

// LoanTerms describes a fixed-rate, fixed-term loan.
type LoanTerms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	Years             float64 `json:"years"`
}

// ApplicantProfile is the input to eligibility evaluation and max-loan estimation.
//
// RequestedLoan is only meaningful for eligibility evaluation; max-loan
// estimation ignores it. Age is ignored by max-loan estimation.
type ApplicantProfile struct {
	Age    int     `json:"age"`
	Income float64 `json:"income"`
	// ExistingEMI is the monthly obligation already owed. Defaults to 0 when absent.
	ExistingEMI     float64 `json:"existing_emi"`
	CreditScore     int     `json:"credit_score"`
	RequestedLoan   float64 `json:"requested_loan"`
	TenureYears     float64 `json:"tenure"`
	InterestPercent float64 `json:"interest"`
}

// Terms returns the loan terms of the requested loan.
func (p ApplicantProfile) Terms() LoanTerms {
	return LoanTerms{
		Principal:         p.RequestedLoan,
		AnnualRatePercent: p.InterestPercent,
		Years:             p.TenureYears,
	}
}

// EligibilityResult is the verdict of an eligibility evaluation.
//
// EMI and DTI are nil unless the profile passed every gate that precedes
// the debt-to-income computation.
type EligibilityResult struct {
	Eligible bool     `json:"eligible"`
	Reason   string   `json:"reason"`
	Rule     RuleID   `json:"rule"`
	EMI      *float64 `json:"emi,omitempty"`
	DTI      *float64 `json:"dti,omitempty"`
}

// RuleID names the eligibility rule that decided a verdict.
type RuleID string

const (
	RuleAgeRange         RuleID = "age_range"
	RuleIncomePositive   RuleID = "income_positive"
	RuleCreditScoreRange RuleID = "credit_score_range"
	RuleMinIncome        RuleID = "min_income"
	RuleMinCreditScore   RuleID = "min_credit_score"
	RuleMaxDTI           RuleID = "max_dti"
	RulePassed           RuleID = "passed"
)

// HasInstallment reports whether the installment was computed.
func (r EligibilityResult) HasInstallment() bool {
	return r.EMI != nil
}

// MaxLoanQuote is the answer to "how much can this applicant borrow".
// A MaxLoan of 0 means no loan is recommended.
type MaxLoanQuote struct {
	MaxLoan     float64 `json:"max_loan"`
	ApproxEMI   float64 `json:"approx_emi"`
	Recommended bool    `json:"recommended"`
	Message     string  `json:"message,omitempty"`
}

// ApplicantRecord is an applicant row from a CSV upload or the applicant table.
type ApplicantRecord struct {
	ApplicantID string           `json:"applicant_id"`
	Email       string           `json:"email,omitempty"`
	BatchID     string           `json:"batch_id,omitempty"`
	Profile     ApplicantProfile `json:"profile"`
}

// ValidateApplicantRecord checks the fields a batch run cannot do without.
// Domain ranges (age, credit score, income) are deliberately left to the
// eligibility rules, which report them as reasons.
func ValidateApplicantRecord(r *ApplicantRecord) error {
	if strings.TrimSpace(r.ApplicantID) == "" {
		return ErrEmptyApplicantID
	}

	if r.Email != "" && !isValidEmail(r.Email) {
		return ErrInvalidEmail
	}

	if r.Profile.ExistingEMI < 0 {
		return ErrNegativeExistingEMI
	}

	return nil
}

// isValidEmail performs basic email validation.
func isValidEmail(email string) bool {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Must have a dot after @
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex <= atIndex+1 || dotIndex == len(email)-1 {
		return false
	}

	return true
}
