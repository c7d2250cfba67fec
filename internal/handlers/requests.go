package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/affordability"
)

// Request fields are pointers so the validator can tell a missing field
// from an explicit zero. Values are never range-checked here; the
// eligibility rules report out-of-range values as reasons.

// EMIRequest is the body of POST /api/v1/emi.
type EMIRequest struct {
	Principal         *float64 `json:"principal" validate:"required"`
	AnnualRatePercent *float64 `json:"annual_rate_percent" validate:"required"`
	Years             *float64 `json:"years" validate:"required"`
}

// Terms returns the requested loan terms.
func (r EMIRequest) Terms() models.LoanTerms {
	return models.LoanTerms{
		Principal:         deref(r.Principal),
		AnnualRatePercent: deref(r.AnnualRatePercent),
		Years:             deref(r.Years),
	}
}

// EMIResponse is the reply to POST /api/v1/emi.
type EMIResponse struct {
	EMI float64 `json:"emi"`
}

// ScheduleRequest is the body of POST /api/v1/schedule.
type ScheduleRequest struct {
	EMIRequest
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// ScheduleResponse is the reply to POST /api/v1/schedule.
type ScheduleResponse struct {
	EMI           float64                     `json:"emi"`
	Months        int                         `json:"months"`
	TotalPayment  decimal.Decimal             `json:"total_payment"`
	TotalInterest decimal.Decimal             `json:"total_interest"`
	Installments  []affordability.Installment `json:"installments"`
}

// EligibilityRequest is the body of POST /api/v1/eligibility.
type EligibilityRequest struct {
	Age           *int     `json:"age" validate:"required"`
	Income        *float64 `json:"income" validate:"required"`
	ExistingEMI   *float64 `json:"existing_emi"`
	CreditScore   *int     `json:"credit_score" validate:"required"`
	RequestedLoan *float64 `json:"requested_loan" validate:"required"`
	Tenure        *float64 `json:"tenure" validate:"required"`
	Interest      *float64 `json:"interest" validate:"required"`
}

// Profile converts the request to an applicant profile. A missing
// existing_emi is 0.
func (r EligibilityRequest) Profile() models.ApplicantProfile {
	return models.ApplicantProfile{
		Age:             derefInt(r.Age),
		Income:          deref(r.Income),
		ExistingEMI:     deref(r.ExistingEMI),
		CreditScore:     derefInt(r.CreditScore),
		RequestedLoan:   deref(r.RequestedLoan),
		TenureYears:     deref(r.Tenure),
		InterestPercent: deref(r.Interest),
	}
}

// MaxLoanRequest is the body of POST /api/v1/max-loan. Age and the
// requested loan do not affect the estimate and may be omitted.
type MaxLoanRequest struct {
	Age           *int     `json:"age"`
	Income        *float64 `json:"income" validate:"required"`
	ExistingEMI   *float64 `json:"existing_emi"`
	CreditScore   *int     `json:"credit_score" validate:"required"`
	RequestedLoan *float64 `json:"requested_loan"`
	Tenure        *float64 `json:"tenure" validate:"required"`
	Interest      *float64 `json:"interest" validate:"required"`
}

// Profile converts the request to an applicant profile.
func (r MaxLoanRequest) Profile() models.ApplicantProfile {
	return models.ApplicantProfile{
		Age:             derefInt(r.Age),
		Income:          deref(r.Income),
		ExistingEMI:     deref(r.ExistingEMI),
		CreditScore:     derefInt(r.CreditScore),
		RequestedLoan:   deref(r.RequestedLoan),
		TenureYears:     deref(r.Tenure),
		InterestPercent: deref(r.Interest),
	}
}

// UploadURLResponse is the reply to GET /api/v1/batches/upload-url.
type UploadURLResponse struct {
	BatchID   string    `json:"batch_id"`
	UploadURL string    `json:"upload_url"`
	S3Key     string    `json:"s3_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
