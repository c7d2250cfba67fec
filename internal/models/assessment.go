// Package models defines the data structures for the loan affordability engine.
package models

import (
	"time"
)

// AssessmentStatus is the outcome of assessing one applicant.
type AssessmentStatus string

const (
	AssessmentStatusEligible    AssessmentStatus = "eligible"
	AssessmentStatusNotEligible AssessmentStatus = "not_eligible"
)

// AssessmentSource indicates where the assessed applicants came from.
type AssessmentSource string

const (
	AssessmentSourceUpload   AssessmentSource = "upload"
	AssessmentSourceS3       AssessmentSource = "s3"
	AssessmentSourceDatabase AssessmentSource = "database"
)

// AssessmentRecord is the result of running one applicant through the
// eligibility rules and the max-loan estimator.
type AssessmentRecord struct {
	ApplicantID string            `json:"applicant_id"`
	Email       string            `json:"email,omitempty"`
	BatchID     string            `json:"batch_id"`
	Status      AssessmentStatus  `json:"status"`
	Eligibility EligibilityResult `json:"eligibility"`
	Quote       MaxLoanQuote      `json:"quote"`
	AssessedAt  time.Time         `json:"assessed_at"`
}

// BatchAssessmentSummary provides summary statistics for an assessment batch.
type BatchAssessmentSummary struct {
	BatchID               string           `json:"batch_id"`
	Source                AssessmentSource `json:"source"`
	TotalApplicants       int              `json:"total_applicants"`
	Eligible              int              `json:"eligible"`
	NotEligible           int              `json:"not_eligible"`
	Recommended           int              `json:"recommended"`
	TotalRecommendedLoan  float64          `json:"total_recommended_loan"`
	AvgDTI                float64          `json:"avg_dti"`
	ReasonCounts          map[string]int   `json:"reason_counts"`
	RowErrors             []string         `json:"row_errors,omitempty"`
	ProcessingTimeSeconds float64          `json:"processing_time_seconds"`
}

// BatchAssessment bundles the summary with the per-applicant records.
type BatchAssessment struct {
	Summary BatchAssessmentSummary `json:"summary"`
	Records []AssessmentRecord     `json:"records"`
}
