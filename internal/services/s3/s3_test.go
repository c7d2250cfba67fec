package s3service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	s3service "loan-affordability-engine/internal/services/s3"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "uploads/b-1.csv", s3service.UploadKey("b-1"))
	assert.Equal(t, "reports/b-1.csv", s3service.ReportKey("b-1"))
	assert.Equal(t, "reports/b-1.json", s3service.SummaryKey("b-1"))
	assert.Equal(t, "processed/b-1.csv", s3service.ProcessedKey("uploads/b-1.csv"))
}

func TestBatchIDFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"uploads/2f1c.csv", "2f1c"},
		{"uploads/nested/dir/abc.csv", "abc"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, s3service.BatchIDFromKey(tt.key))
		})
	}
}
