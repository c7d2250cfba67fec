// Package models defines the data structures for the loan affordability engine.
package models

import (
	"errors"
)

// Common errors
var (
	ErrEmptyApplicantID    = errors.New("applicant_id cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrNegativeExistingEMI = errors.New("existing_emi cannot be negative")
	ErrEmptyBatch          = errors.New("batch contains no applicants")
	ErrBatchNotFound       = errors.New("batch not found")
)
