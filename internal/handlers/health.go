package handlers

import (
	"context"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler handles health check requests.
type HealthHandler struct {
	stage  string
	checks map[string]HealthCheck
}

// NewHealthHandler creates a health handler. Each named check reports one
// dependency; a failing check marks the service degraded.
func NewHealthHandler(stage string, checks map[string]HealthCheck) *HealthHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &HealthHandler{stage: stage, checks: checks}
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    string            `json:"timestamp"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Stage        string            `json:"stage"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

func (h *HealthHandler) check(ctx context.Context) response {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "loan-affordability-engine",
		Version:   getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
		Stage:     h.stage,
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		result.Dependencies = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			result.Dependencies[name] = "disconnected"
			result.Status = "degraded"
			continue
		}
		result.Dependencies[name] = "connected"
	}

	statusCode := http.StatusOK
	if result.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	return jsonResponse(statusCode, result)
}

// Handle processes health check requests from API Gateway.
func (h *HealthHandler) Handle(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return h.check(ctx).apiGateway(corsHeaders()), nil
}

// ServeHTTP serves GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.check(r.Context()).write(w)
}

// getEnvOrDefault returns environment variable or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
