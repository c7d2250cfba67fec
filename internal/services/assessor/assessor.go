// Package assessor runs batches of applicants through the eligibility rules
// and the max-loan estimator and summarizes the outcome.
package assessor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"loan-affordability-engine/internal/metrics"
	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/affordability"
	"loan-affordability-engine/internal/utils"
)

// Notifier delivers a per-applicant assessment result.
type Notifier interface {
	NotifyAssessment(ctx context.Context, record models.AssessmentRecord) error
}

// ApplicantSource loads the applicants of a stored batch.
type ApplicantSource interface {
	GetByBatchID(ctx context.Context, batchID string) ([]*models.ApplicantRecord, error)
}

// Assessor evaluates applicants under one policy.
type Assessor struct {
	engine   *affordability.Engine
	notifier Notifier
	webhook  *WebhookClient
	now      func() time.Time
}

// Option configures an Assessor.
type Option func(*Assessor)

// WithNotifier emails each assessed applicant that has an address.
func WithNotifier(n Notifier) Option {
	return func(a *Assessor) { a.notifier = n }
}

// WithWebhook posts every batch summary to url. An empty url is ignored.
func WithWebhook(url string) Option {
	return func(a *Assessor) {
		if url != "" {
			a.webhook = NewWebhookClient(url)
		}
	}
}

// WithClock overrides the time source used for AssessedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Assessor) { a.now = now }
}

// New creates an assessor around engine.
func New(engine *affordability.Engine, opts ...Option) *Assessor {
	a := &Assessor{
		engine: engine,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess evaluates one applicant and estimates their maximum loan.
func (a *Assessor) Assess(applicant *models.ApplicantRecord) models.AssessmentRecord {
	eligibility := a.engine.Evaluate(applicant.Profile)
	quote := a.engine.Quote(applicant.Profile)

	metrics.RecordEligibility(eligibility)
	metrics.RecordQuote(quote)

	status := models.AssessmentStatusNotEligible
	if eligibility.Eligible {
		status = models.AssessmentStatusEligible
	}

	return models.AssessmentRecord{
		ApplicantID: applicant.ApplicantID,
		Email:       applicant.Email,
		BatchID:     applicant.BatchID,
		Status:      status,
		Eligibility: eligibility,
		Quote:       quote,
		AssessedAt:  a.now().UTC(),
	}
}

// AssessBatch assesses every applicant, then notifies applicants and posts
// the summary when configured. Notification and webhook failures are logged
// and do not fail the batch. rowErrors are parse failures from the input,
// reported in the summary.
func (a *Assessor) AssessBatch(ctx context.Context, batchID string, source models.AssessmentSource, applicants []*models.ApplicantRecord, rowErrors []error) (*models.BatchAssessment, error) {
	startTime := time.Now()

	if len(applicants) == 0 {
		return nil, models.ErrEmptyBatch
	}

	log := utils.GetLogger().With(
		zap.String("batch_id", batchID),
		zap.String("source", string(source)),
	)
	log.Info("Starting batch assessment",
		zap.Int("applicants", len(applicants)),
		zap.Int("row_errors", len(rowErrors)),
	)

	records := make([]models.AssessmentRecord, 0, len(applicants))
	for _, applicant := range applicants {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch assessment cancelled: %w", err)
		}
		record := a.Assess(applicant)
		if record.BatchID == "" {
			record.BatchID = batchID
		}
		records = append(records, record)
	}

	summary := Summarize(batchID, source, records)
	for _, err := range rowErrors {
		summary.RowErrors = append(summary.RowErrors, err.Error())
	}
	metrics.BatchRowErrors.WithLabelValues(string(source)).Add(float64(len(rowErrors)))
	for _, r := range records {
		metrics.BatchApplicants.WithLabelValues(string(source), string(r.Status)).Inc()
	}

	log.Info("Stage 1 complete: assessment",
		zap.Int("eligible", summary.Eligible),
		zap.Int("not_eligible", summary.NotEligible),
		zap.Int("recommended", summary.Recommended),
	)

	if a.notifier != nil {
		sent, failed := a.notify(ctx, records)
		log.Info("Stage 2 complete: notifications",
			zap.Int("sent", sent),
			zap.Int("failed", failed),
		)
	}

	elapsed := time.Since(startTime)
	summary.ProcessingTimeSeconds = elapsed.Seconds()
	metrics.BatchDuration.WithLabelValues(string(source)).Observe(elapsed.Seconds())

	if a.webhook != nil {
		if err := a.webhook.PostSummary(ctx, summary); err != nil {
			log.Warn("Failed to post batch summary", zap.Error(err))
		}
	}

	log.Info("Batch assessment complete",
		zap.Duration("processing_time", elapsed),
	)

	return &models.BatchAssessment{
		Summary: summary,
		Records: records,
	}, nil
}

// AssessStoredBatch loads a batch from source and assesses it.
func (a *Assessor) AssessStoredBatch(ctx context.Context, source ApplicantSource, batchID string) (*models.BatchAssessment, error) {
	applicants, err := source.GetByBatchID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchID, err)
	}
	return a.AssessBatch(ctx, batchID, models.AssessmentSourceDatabase, applicants, nil)
}

func (a *Assessor) notify(ctx context.Context, records []models.AssessmentRecord) (sent, failed int) {
	for _, r := range records {
		if r.Email == "" {
			continue
		}
		if err := a.notifier.NotifyAssessment(ctx, r); err != nil {
			failed++
			utils.GetLogger().Warn("Failed to notify applicant",
				zap.String("applicant_id", r.ApplicantID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	return sent, failed
}

// Summarize aggregates assessment records. AvgDTI averages only records
// whose debt-to-income ratio was computed.
func Summarize(batchID string, source models.AssessmentSource, records []models.AssessmentRecord) models.BatchAssessmentSummary {
	summary := models.BatchAssessmentSummary{
		BatchID:         batchID,
		Source:          source,
		TotalApplicants: len(records),
		ReasonCounts:    make(map[string]int),
	}

	var dtiSum float64
	var dtiCount int
	for _, r := range records {
		if r.Eligibility.Eligible {
			summary.Eligible++
		} else {
			summary.NotEligible++
		}
		if r.Quote.Recommended {
			summary.Recommended++
			summary.TotalRecommendedLoan += r.Quote.MaxLoan
		}
		if r.Eligibility.DTI != nil {
			dtiSum += *r.Eligibility.DTI
			dtiCount++
		}
		summary.ReasonCounts[r.Eligibility.Reason]++
	}

	if dtiCount > 0 {
		summary.AvgDTI = dtiSum / float64(dtiCount)
	}

	return summary
}
