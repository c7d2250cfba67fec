package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-affordability-engine/internal/handlers"
	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/affordability"
	"loan-affordability-engine/internal/services/assessor"
)

type fakeStore struct {
	files    map[string][]byte
	uploaded map[string][]byte
	moved    map[string]string
}

func newFakeStore(files map[string][]byte) *fakeStore {
	return &fakeStore{files: files, uploaded: map[string][]byte{}, moved: map[string]string{}}
}

func (f *fakeStore) DownloadFile(_ context.Context, key string) ([]byte, error) {
	data, ok := f.files[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return data, nil
}

func (f *fakeStore) UploadFile(_ context.Context, key string, data []byte, _ string) error {
	f.uploaded[key] = data
	return nil
}

func (f *fakeStore) MoveFile(_ context.Context, sourceKey, destKey string) error {
	f.moved[sourceKey] = destKey
	return nil
}

func s3Event(key string) events.S3Event {
	return events.S3Event{
		Records: []events.S3EventRecord{{
			S3: events.S3Entity{
				Bucket: events.S3Bucket{Name: "loan-affordability-batches-test"},
				Object: events.S3Object{Key: key},
			},
		}},
	}
}

func newBatchProcessor(store handlers.ObjectStore) *handlers.BatchProcessorHandler {
	return handlers.NewBatchProcessorHandler(store, assessor.New(affordability.NewEngine(affordability.DefaultPolicy())))
}

func TestBatchProcessor_AssessesUpload(t *testing.T) {
	store := newFakeStore(map[string][]byte{"uploads/batch-7.csv": []byte(batchCSV + "\nAPP003,bad-email,30,50000,750,1,1,1")})
	h := newBatchProcessor(store)

	result, err := h.Handle(context.Background(), s3Event("uploads/batch-7.csv"))
	require.NoError(t, err)

	assert.Equal(t, "batch-7", result.BatchID)
	assert.Equal(t, 2, result.Assessed)
	assert.Equal(t, 1, result.Eligible)
	assert.Equal(t, 1, result.Recommended)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "reports/batch-7.csv", result.ReportKey)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "invalid email")

	report := string(store.uploaded["reports/batch-7.csv"])
	assert.True(t, strings.HasPrefix(report, "applicant_id,status"))

	var summary models.BatchAssessmentSummary
	require.NoError(t, json.Unmarshal(store.uploaded["reports/batch-7.json"], &summary))
	assert.Equal(t, models.AssessmentSourceS3, summary.Source)
	assert.Equal(t, []string{"line 4: invalid email address"}, summary.RowErrors)

	assert.Equal(t, "processed/batch-7.csv", store.moved["uploads/batch-7.csv"])
}

func TestBatchProcessor_URLEncodedKey(t *testing.T) {
	store := newFakeStore(map[string][]byte{"uploads/my batch.csv": []byte(batchCSV)})
	h := newBatchProcessor(store)

	result, err := h.Handle(context.Background(), s3Event("uploads/my+batch.csv"))
	require.NoError(t, err)
	assert.Equal(t, "my batch", result.BatchID)
}

func TestBatchProcessor_IgnoresOtherKeys(t *testing.T) {
	store := newFakeStore(nil)
	h := newBatchProcessor(store)

	result, err := h.Handle(context.Background(), s3Event("reports/batch-7.csv"))
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Ignored")
	assert.Empty(t, store.uploaded)
}

func TestBatchProcessor_NoRecords(t *testing.T) {
	h := newBatchProcessor(newFakeStore(nil))

	result, err := h.Handle(context.Background(), events.S3Event{})
	require.NoError(t, err)
	assert.Equal(t, "No records to process", result.Message)
}

func TestBatchProcessor_NoValidApplicants(t *testing.T) {
	store := newFakeStore(map[string][]byte{"uploads/empty.csv": []byte("applicant_id,age,monthly_income,credit_score\n,30,50000,750")})
	h := newBatchProcessor(store)

	result, err := h.Handle(context.Background(), s3Event("uploads/empty.csv"))
	require.NoError(t, err)
	assert.Equal(t, "No valid applicants found in CSV", result.Message)
	assert.Empty(t, store.uploaded)
	assert.Empty(t, store.moved)
}

func TestBatchProcessor_DownloadFailure(t *testing.T) {
	h := newBatchProcessor(newFakeStore(nil))

	_, err := h.Handle(context.Background(), s3Event("uploads/missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download CSV")
}
