package database

// Schema creates the applicant table read by ApplicantRepository. It is
// applied by the init-db command and by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS loan_applications (
	applicant_id     TEXT PRIMARY KEY,
	email            TEXT,
	batch_id         TEXT NOT NULL,
	age              INTEGER NOT NULL,
	monthly_income   DOUBLE PRECISION NOT NULL,
	existing_emi     DOUBLE PRECISION DEFAULT 0,
	credit_score     INTEGER NOT NULL,
	requested_loan   DOUBLE PRECISION DEFAULT 0,
	tenure_years     DOUBLE PRECISION DEFAULT 0,
	interest_percent DOUBLE PRECISION DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_loan_applications_batch_id ON loan_applications (batch_id);
`
