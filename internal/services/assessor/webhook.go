package assessor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"loan-affordability-engine/internal/models"
)

// WebhookClient posts batch summaries to an HTTP endpoint.
type WebhookClient struct {
	url    string
	client *http.Client
}

// NewWebhookClient creates a webhook client for url.
func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// PostSummary sends summary as JSON. Any non-2xx response is an error.
func (w *WebhookClient) PostSummary(ctx context.Context, summary models.BatchAssessmentSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
