// Command init-db creates the applicant table and optionally loads a CSV
// file of applicants into it, so stored batches can be assessed through
// POST /api/v1/batches/{batchID}/assess.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"loan-affordability-engine/internal/config"
	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/database"
	"loan-affordability-engine/internal/utils"
)

func main() {
	seedFile := flag.String("seed", "", "CSV file of applicants to insert")
	batchID := flag.String("batch", "", "batch ID for seeded applicants (default: random)")
	flag.Parse()

	fmt.Println("=== Database Initialization ===")

	cfg, err := config.Load()
	if err != nil {
		fail("Failed to load config", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = cfg.DatabaseURL()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		fail("Failed to connect to database", err)
	}
	defer conn.Close(ctx)
	fmt.Println("✅ Connected to database")

	if _, err := conn.Exec(ctx, database.Schema); err != nil {
		fail("Failed to apply schema", err)
	}
	fmt.Println("✅ Schema applied")

	if *seedFile == "" {
		return
	}

	content, err := os.ReadFile(*seedFile)
	if err != nil {
		fail("Failed to read seed file", err)
	}

	id := *batchID
	if id == "" {
		id = uuid.New().String()
	}

	applicants, parseErrors := utils.NewCSVParser().ParseApplicants(string(content), id)
	for _, perr := range parseErrors {
		fmt.Printf("⚠️  %v\n", perr)
	}
	if len(applicants) == 0 {
		fail("No valid applicants in seed file", models.ErrEmptyBatch)
	}

	inserted, err := insertApplicants(ctx, conn, applicants)
	if err != nil {
		fail("Failed to insert applicants", err)
	}
	fmt.Printf("✅ Inserted %d applicants into batch %s\n", inserted, id)
}

// insertApplicants upserts applicants in one transaction.
func insertApplicants(ctx context.Context, conn *pgx.Conn, applicants []*models.ApplicantRecord) (int64, error) {
	batch := &pgx.Batch{}
	for _, a := range applicants {
		var email *string
		if a.Email != "" {
			email = &a.Email
		}
		batch.Queue(`
			INSERT INTO loan_applications (applicant_id, email, batch_id, age, monthly_income, existing_emi, credit_score, requested_loan, tenure_years, interest_percent)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (applicant_id) DO UPDATE SET
				email = EXCLUDED.email,
				batch_id = EXCLUDED.batch_id,
				age = EXCLUDED.age,
				monthly_income = EXCLUDED.monthly_income,
				existing_emi = EXCLUDED.existing_emi,
				credit_score = EXCLUDED.credit_score,
				requested_loan = EXCLUDED.requested_loan,
				tenure_years = EXCLUDED.tenure_years,
				interest_percent = EXCLUDED.interest_percent`,
			a.ApplicantID, email, a.BatchID,
			a.Profile.Age, a.Profile.Income, a.Profile.ExistingEMI, a.Profile.CreditScore,
			a.Profile.RequestedLoan, a.Profile.TenureYears, a.Profile.InterestPercent,
		)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	results := tx.SendBatch(ctx, batch)
	var inserted int64
	for range applicants {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, err
		}
		inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, err
	}

	return inserted, tx.Commit(ctx)
}

func fail(msg string, err error) {
	fmt.Printf("❌ %s: %v\n", msg, err)
	os.Exit(1)
}
