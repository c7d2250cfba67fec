// Package utils provides utility functions for the loan affordability engine.
package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"loan-affordability-engine/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in the CSV.
var RequiredColumns = []string{
	"applicant_id",
	"age",
	"monthly_income",
	"credit_score",
}

// OptionalColumns default to zero (or empty) when absent.
var OptionalColumns = []string{
	"email",
	"existing_emi",
	"requested_loan",
	"tenure",
	"interest",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// applicant_id aliases
	"applicantid":    "applicant_id",
	"applicant id":   "applicant_id",
	"applicant":      "applicant_id",
	"user_id":        "applicant_id",
	"userid":         "applicant_id",
	"customer_id":    "applicant_id",
	"customerid":     "applicant_id",
	"application_id": "applicant_id",
	"id":             "applicant_id",

	// email aliases
	"emailaddress":  "email",
	"email_address": "email",
	"mail":          "email",

	// income aliases
	"income":         "monthly_income",
	"monthlyincome":  "monthly_income",
	"monthly income": "monthly_income",
	"annual_income":  "monthly_income", // Will divide by 12
	"annualincome":   "monthly_income",
	"annual income":  "monthly_income",
	"salary":         "monthly_income",
	"monthly_salary": "monthly_income",

	// credit_score aliases
	"creditscore":  "credit_score",
	"credit score": "credit_score",
	"score":        "credit_score",
	"cibil":        "credit_score",
	"cibil_score":  "credit_score",

	// existing_emi aliases
	"existingemi":       "existing_emi",
	"existing emi":      "existing_emi",
	"emi":               "existing_emi",
	"current_emi":       "existing_emi",
	"monthly_debt":      "existing_emi",
	"monthly_emi":       "existing_emi",
	"existing_payments": "existing_emi",

	// requested_loan aliases
	"requestedloan":  "requested_loan",
	"loan_amount":    "requested_loan",
	"loanamount":     "requested_loan",
	"amount":         "requested_loan",
	"principal":      "requested_loan",
	"requested loan": "requested_loan",

	// tenure aliases
	"tenure_years": "tenure",
	"term":         "tenure",
	"term_years":   "tenure",
	"years":        "tenure",

	// interest aliases
	"interest_rate": "interest",
	"rate":          "interest",
	"annual_rate":   "interest",
	"interestrate":  "interest",
	"roi":           "interest",
}

// CSVParser handles parsing of applicant CSV files.
type CSVParser struct {
	columnMapping   map[string]int
	originalHeaders map[string]string // Maps normalized column name to original header
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping:   make(map[string]int),
		originalHeaders: make(map[string]string),
	}
}

// ParseApplicants parses CSV content into applicant records. Rows that fail
// to parse are reported as errors and skipped.
func (p *CSVParser) ParseApplicants(content string, batchID string) ([]*models.ApplicantRecord, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var applicants []*models.ApplicantRecord
	var parseErrors []error
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		applicant, err := p.parseRow(record, batchID)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		if err := models.ValidateApplicantRecord(applicant); err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		applicants = append(applicants, applicant)
	}

	if len(applicants) == 0 && len(parseErrors) > 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return applicants, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)
	p.originalHeaders = make(map[string]string)

	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		original := normalized

		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}

		p.columnMapping[normalized] = i
		p.originalHeaders[normalized] = original
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow parses a single CSV row into an applicant record.
func (p *CSVParser) parseRow(record []string, batchID string) (*models.ApplicantRecord, error) {
	getValue := func(column string) (string, bool) {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[idx]), true
	}

	required := func(column string) (string, error) {
		value, ok := getValue(column)
		if !ok {
			return "", fmt.Errorf("column %s missing from row", column)
		}
		return value, nil
	}

	optionalFloat := func(column string) (float64, error) {
		value, ok := getValue(column)
		if !ok || value == "" {
			return 0, nil
		}
		f, err := parseFloat(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", column, err)
		}
		return f, nil
	}

	applicantID, err := required("applicant_id")
	if err != nil {
		return nil, err
	}

	ageStr, err := required("age")
	if err != nil {
		return nil, err
	}
	age, err := parseInt(ageStr)
	if err != nil {
		return nil, fmt.Errorf("invalid age: %w", err)
	}

	incomeStr, err := required("monthly_income")
	if err != nil {
		return nil, err
	}
	income, err := parseFloat(incomeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly_income: %w", err)
	}
	if strings.Contains(p.originalHeaders["monthly_income"], "annual") {
		income = income / 12.0
	}

	scoreStr, err := required("credit_score")
	if err != nil {
		return nil, err
	}
	creditScore, err := parseInt(scoreStr)
	if err != nil {
		return nil, fmt.Errorf("invalid credit_score: %w", err)
	}

	existingEMI, err := optionalFloat("existing_emi")
	if err != nil {
		return nil, err
	}
	requestedLoan, err := optionalFloat("requested_loan")
	if err != nil {
		return nil, err
	}
	tenure, err := optionalFloat("tenure")
	if err != nil {
		return nil, err
	}
	interest, err := optionalFloat("interest")
	if err != nil {
		return nil, err
	}

	email, _ := getValue("email")

	return &models.ApplicantRecord{
		ApplicantID: applicantID,
		Email:       email,
		BatchID:     batchID,
		Profile: models.ApplicantProfile{
			Age:             age,
			Income:          income,
			ExistingEMI:     existingEMI,
			CreditScore:     creditScore,
			RequestedLoan:   requestedLoan,
			TenureYears:     tenure,
			InterestPercent: interest,
		},
	}, nil
}

// parseFloat parses a string to float64, handling common formats.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	// Remove thousands separators, currency symbols and percent signs
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

// parseInt parses a string to int, handling common formats.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Whole-valued floats such as "750.0" are accepted, fractions are not.
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("%q is not a whole number", s)
		}
		return int(f), nil
	}

	return strconv.Atoi(s)
}
