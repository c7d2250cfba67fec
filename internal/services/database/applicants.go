package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"loan-affordability-engine/internal/models"
)

const applicantColumns = `applicant_id, COALESCE(email, ''), batch_id, age, monthly_income,
	COALESCE(existing_emi, 0), credit_score, COALESCE(requested_loan, 0),
	COALESCE(tenure_years, 0), COALESCE(interest_percent, 0)`

// ApplicantRepository reads the loan_applications table.
type ApplicantRepository struct {
	db *DB
}

// NewApplicantRepository creates a new applicant repository.
func NewApplicantRepository(db *DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

// GetByBatchID returns every applicant of a batch in applicant_id order.
// It returns models.ErrBatchNotFound when the batch has no rows.
func (r *ApplicantRepository) GetByBatchID(ctx context.Context, batchID string) ([]*models.ApplicantRecord, error) {
	query := `SELECT ` + applicantColumns + `
		FROM loan_applications
		WHERE batch_id = $1
		ORDER BY applicant_id`

	rows, err := r.db.query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicants: %w", err)
	}
	defer rows.Close()

	var applicants []*models.ApplicantRecord
	for rows.Next() {
		applicant, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		applicants = append(applicants, applicant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applicants: %w", err)
	}

	if len(applicants) == 0 {
		return nil, models.ErrBatchNotFound
	}

	return applicants, nil
}

// GetByApplicantID returns a single applicant, or nil when it does not exist.
func (r *ApplicantRepository) GetByApplicantID(ctx context.Context, applicantID string) (*models.ApplicantRecord, error) {
	query := `SELECT ` + applicantColumns + `
		FROM loan_applications
		WHERE applicant_id = $1`

	applicant, err := scanApplicant(r.db.queryRow(ctx, query, applicantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}

	return applicant, nil
}

// CountByBatchID returns the number of applicants in a batch.
func (r *ApplicantRepository) CountByBatchID(ctx context.Context, batchID string) (int, error) {
	var count int
	err := r.db.queryRow(ctx,
		`SELECT COUNT(*) FROM loan_applications WHERE batch_id = $1`, batchID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count applicants: %w", err)
	}
	return count, nil
}

func scanApplicant(row pgx.Row) (*models.ApplicantRecord, error) {
	var a models.ApplicantRecord
	err := row.Scan(
		&a.ApplicantID,
		&a.Email,
		&a.BatchID,
		&a.Profile.Age,
		&a.Profile.Income,
		&a.Profile.ExistingEMI,
		&a.Profile.CreditScore,
		&a.Profile.RequestedLoan,
		&a.Profile.TenureYears,
		&a.Profile.InterestPercent,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
