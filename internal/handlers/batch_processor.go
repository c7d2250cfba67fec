package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/assessor"
	s3service "loan-affordability-engine/internal/services/s3"
	"loan-affordability-engine/internal/utils"
)

// ObjectStore is the subset of S3 used by batch processing.
type ObjectStore interface {
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	MoveFile(ctx context.Context, sourceKey, destKey string) error
}

// maxReportedErrors caps the row errors echoed in a BatchProcessResult.
const maxReportedErrors = 10

// BatchProcessorHandler assesses applicant CSVs uploaded to S3.
type BatchProcessorHandler struct {
	store    ObjectStore
	assessor *assessor.Assessor
}

// NewBatchProcessorHandler creates a new batch processor handler.
func NewBatchProcessorHandler(store ObjectStore, a *assessor.Assessor) *BatchProcessorHandler {
	return &BatchProcessorHandler{store: store, assessor: a}
}

// BatchProcessResult is the result of processing an uploaded CSV.
type BatchProcessResult struct {
	Message     string   `json:"message"`
	BatchID     string   `json:"batch_id"`
	Assessed    int      `json:"assessed"`
	Eligible    int      `json:"eligible"`
	Recommended int      `json:"recommended"`
	Failed      int      `json:"failed"`
	ReportKey   string   `json:"report_key,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// Handle processes S3 events for uploaded CSV files. The report and
// summary are written under reports/ and the input is archived under
// processed/.
func (h *BatchProcessorHandler) Handle(ctx context.Context, s3Event events.S3Event) (BatchProcessResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return BatchProcessResult{Message: "No records to process"}, nil
	}

	record := s3Event.Records[0]
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return BatchProcessResult{}, fmt.Errorf("failed to decode S3 key: %w", err)
	}

	if !strings.HasPrefix(key, s3service.UploadPrefix) || !strings.HasSuffix(strings.ToLower(key), ".csv") {
		logger.Info("Ignoring non-upload object", utils.String("key", key))
		return BatchProcessResult{Message: "Ignored " + key}, nil
	}

	batchID := s3service.BatchIDFromKey(key)
	logger.Info("Processing batch upload",
		utils.String("bucket", record.S3.Bucket.Name),
		utils.String("key", key),
		utils.String("batchID", batchID))

	content, err := h.store.DownloadFile(ctx, key)
	if err != nil {
		return BatchProcessResult{}, fmt.Errorf("failed to download CSV: %w", err)
	}

	parser := utils.NewCSVParser()
	applicants, rowErrors := parser.ParseApplicants(string(content), batchID)
	errMsgs := make([]string, 0, len(rowErrors))
	for _, e := range rowErrors {
		errMsgs = append(errMsgs, e.Error())
	}
	if len(errMsgs) > maxReportedErrors {
		errMsgs = errMsgs[:maxReportedErrors]
	}

	if len(applicants) == 0 {
		return BatchProcessResult{
			Message: "No valid applicants found in CSV",
			BatchID: batchID,
			Failed:  len(rowErrors),
			Errors:  errMsgs,
		}, nil
	}

	result, err := h.assessor.AssessBatch(ctx, batchID, models.AssessmentSourceS3, applicants, rowErrors)
	if err != nil {
		return BatchProcessResult{}, fmt.Errorf("failed to assess batch: %w", err)
	}

	report, err := utils.WriteAssessmentReport(result.Records)
	if err != nil {
		return BatchProcessResult{}, err
	}
	reportKey := s3service.ReportKey(batchID)
	if err := h.store.UploadFile(ctx, reportKey, report, "text/csv"); err != nil {
		return BatchProcessResult{}, fmt.Errorf("failed to upload report: %w", err)
	}

	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return BatchProcessResult{}, fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := h.store.UploadFile(ctx, s3service.SummaryKey(batchID), summary, "application/json"); err != nil {
		return BatchProcessResult{}, fmt.Errorf("failed to upload summary: %w", err)
	}

	if err := h.store.MoveFile(ctx, key, s3service.ProcessedKey(key)); err != nil {
		logger.Warn("Failed to archive file", utils.Error(err))
	}

	return BatchProcessResult{
		Message:     "Batch assessed successfully",
		BatchID:     batchID,
		Assessed:    result.Summary.TotalApplicants,
		Eligible:    result.Summary.Eligible,
		Recommended: result.Summary.Recommended,
		Failed:      len(rowErrors),
		ReportKey:   reportKey,
		Errors:      errMsgs,
	}, nil
}
