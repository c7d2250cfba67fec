package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"loan-affordability-engine/internal/models"
)

// ReportColumns is the header of an assessment report.
var ReportColumns = []string{
	"applicant_id",
	"status",
	"rule",
	"reason",
	"emi",
	"dti_percent",
	"max_loan",
	"approx_emi_at_max",
}

// WriteAssessmentReport renders assessment records as CSV. Money amounts
// are rounded to cents. EMI and DTI cells are blank when the evaluation
// stopped before computing them.
func WriteAssessmentReport(records []models.AssessmentRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ReportColumns); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	for _, r := range records {
		emi, dti := "", ""
		if r.Eligibility.EMI != nil {
			emi = Money(*r.Eligibility.EMI)
		}
		if r.Eligibility.DTI != nil && isFinite(*r.Eligibility.DTI) {
			dti = decimal.NewFromFloat(*r.Eligibility.DTI * 100).StringFixed(1)
		}

		row := []string{
			r.ApplicantID,
			string(r.Status),
			string(r.Eligibility.Rule),
			r.Eligibility.Reason,
			emi,
			dti,
			wholeAmount(r.Quote.MaxLoan),
			Money(r.Quote.ApproxEMI),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write report row for %s: %w", r.ApplicantID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}

	return buf.Bytes(), nil
}

// Money formats an amount with two decimal places. Non-finite amounts
// render as an empty cell.
func Money(amount float64) string {
	if !isFinite(amount) {
		return ""
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

func wholeAmount(amount float64) string {
	if !isFinite(amount) {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 0, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
