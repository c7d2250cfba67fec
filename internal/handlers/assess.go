// Package handlers exposes the affordability engine over HTTP and AWS
// Lambda. Each operation is implemented once and rendered for both
// transports.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"loan-affordability-engine/internal/metrics"
	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/services/affordability"
	"loan-affordability-engine/internal/services/assessor"
	"loan-affordability-engine/internal/services/cache"
	s3service "loan-affordability-engine/internal/services/s3"
	"loan-affordability-engine/internal/utils"
)

// Routes served by AssessHandler.
const (
	RouteEMI          = "/api/v1/emi"
	RouteEligibility  = "/api/v1/eligibility"
	RouteMaxLoan      = "/api/v1/max-loan"
	RouteSchedule     = "/api/v1/schedule"
	RouteBatches      = "/api/v1/batches"
	RouteUploadURL    = "/api/v1/batches/upload-url"
	RouteStoredBatch  = "/api/v1/batches/{batchID}/assess"
	storedBatchPrefix = "/api/v1/batches/"
	storedBatchSuffix = "/assess"
)

// maxBodyBytes bounds request bodies, including CSV uploads.
const maxBodyBytes = 10 << 20

const uploadURLExpiryMinutes = 60

// Presigner issues presigned S3 upload URLs.
type Presigner interface {
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiryMinutes int) (*s3service.PresignedURLResult, error)
}

// AssessHandler serves the calculator, eligibility, max-loan, schedule
// and batch operations.
type AssessHandler struct {
	engine     *affordability.Engine
	assessor   *assessor.Assessor
	quotes     cache.QuoteCache
	applicants assessor.ApplicantSource
	uploads    Presigner
	validator  *Validator
	now        func() time.Time
}

// AssessOption configures an AssessHandler.
type AssessOption func(*AssessHandler)

// WithQuoteCache memoizes max-loan quotes.
func WithQuoteCache(c cache.QuoteCache) AssessOption {
	return func(h *AssessHandler) { h.quotes = c }
}

// WithApplicantSource enables assessment of stored batches.
func WithApplicantSource(s assessor.ApplicantSource) AssessOption {
	return func(h *AssessHandler) { h.applicants = s }
}

// WithUploads enables presigned upload URLs for S3 batches.
func WithUploads(p Presigner) AssessOption {
	return func(h *AssessHandler) { h.uploads = p }
}

// WithNow overrides the clock used for default schedule start dates.
func WithNow(now func() time.Time) AssessOption {
	return func(h *AssessHandler) { h.now = now }
}

// NewAssessHandler creates a handler around engine and a.
func NewAssessHandler(engine *affordability.Engine, a *assessor.Assessor, opts ...AssessOption) *AssessHandler {
	h := &AssessHandler{
		engine:    engine,
		assessor:  a,
		validator: GetValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the HTTP routes on r.
func (h *AssessHandler) Routes(r chi.Router) {
	r.Post(RouteEMI, h.serve(func(_ *http.Request, body []byte) response {
		return h.emi(body)
	}))
	r.Post(RouteEligibility, h.serve(func(_ *http.Request, body []byte) response {
		return h.eligibility(body)
	}))
	r.Post(RouteMaxLoan, h.serve(func(req *http.Request, body []byte) response {
		return h.maxLoan(req.Context(), body)
	}))
	r.Post(RouteSchedule, h.serve(func(_ *http.Request, body []byte) response {
		return h.schedule(body)
	}))
	r.Post(RouteBatches, h.serve(func(req *http.Request, body []byte) response {
		return h.uploadBatch(req.Context(), body, req.URL.Query().Get("format"))
	}))
	r.Get(RouteUploadURL, h.serve(func(req *http.Request, _ []byte) response {
		return h.uploadURL(req.Context())
	}))
	r.Post(RouteStoredBatch, h.serve(func(req *http.Request, _ []byte) response {
		return h.storedBatch(req.Context(), chi.URLParam(req, "batchID"), req.URL.Query().Get("format"))
	}))
}

func (h *AssessHandler) serve(fn func(*http.Request, []byte) response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				errorResponse(http.StatusRequestEntityTooLarge, "Request body too large").write(w)
				return
			}
			errorResponse(http.StatusBadRequest, "Failed to read request body").write(w)
			return
		}
		fn(r, body).write(w)
	}
}

// Handle processes API Gateway proxy requests.
func (h *AssessHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders()

	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    headers,
		}, nil
	}

	body, err := requestBody(request)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid base64 body").apiGateway(headers), nil
	}
	format := request.QueryStringParameters["format"]
	path := strings.TrimSuffix(request.Path, "/")

	var resp response
	switch {
	case request.HTTPMethod == http.MethodPost && path == RouteEMI:
		resp = h.emi(body)
	case request.HTTPMethod == http.MethodPost && path == RouteEligibility:
		resp = h.eligibility(body)
	case request.HTTPMethod == http.MethodPost && path == RouteMaxLoan:
		resp = h.maxLoan(ctx, body)
	case request.HTTPMethod == http.MethodPost && path == RouteSchedule:
		resp = h.schedule(body)
	case request.HTTPMethod == http.MethodPost && path == RouteBatches:
		resp = h.uploadBatch(ctx, body, format)
	case request.HTTPMethod == http.MethodGet && path == RouteUploadURL:
		resp = h.uploadURL(ctx)
	case request.HTTPMethod == http.MethodPost && isStoredBatchPath(path):
		batchID := request.PathParameters["batchID"]
		if batchID == "" {
			batchID = strings.TrimSuffix(strings.TrimPrefix(path, storedBatchPrefix), storedBatchSuffix)
		}
		resp = h.storedBatch(ctx, batchID, format)
	default:
		resp = errorResponse(http.StatusNotFound, "No route for "+request.HTTPMethod+" "+request.Path)
	}

	return resp.apiGateway(headers), nil
}

func isStoredBatchPath(path string) bool {
	if !strings.HasPrefix(path, storedBatchPrefix) || !strings.HasSuffix(path, storedBatchSuffix) {
		return false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(path, storedBatchPrefix), storedBatchSuffix)
	return id != "" && !strings.Contains(id, "/")
}

// decode unmarshals and validates a JSON body. ok is false when resp holds
// a 400 response.
func (h *AssessHandler) decode(body []byte, dst interface{}) (resp response, ok bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return errorResponse(http.StatusBadRequest, "Request body is required"), false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON: "+err.Error()), false
	}
	if err := h.validator.ValidateStruct(dst); err != nil {
		return validationErrorResponse(FormatValidationError(err)), false
	}
	return response{}, true
}

func (h *AssessHandler) emi(body []byte) response {
	var req EMIRequest
	if resp, ok := h.decode(body, &req); !ok {
		return resp
	}

	t := req.Terms()
	return jsonResponse(http.StatusOK, EMIResponse{
		EMI: affordability.ComputeInstallment(t.Principal, t.AnnualRatePercent, t.Years),
	})
}

func (h *AssessHandler) eligibility(body []byte) response {
	var req EligibilityRequest
	if resp, ok := h.decode(body, &req); !ok {
		return resp
	}

	result := h.engine.Evaluate(req.Profile())
	metrics.RecordEligibility(result)

	return jsonResponse(http.StatusOK, result)
}

func (h *AssessHandler) maxLoan(ctx context.Context, body []byte) response {
	var req MaxLoanRequest
	if resp, ok := h.decode(body, &req); !ok {
		return resp
	}

	profile := req.Profile()
	key := cache.QuoteKey(profile, h.engine.Policy())

	if h.quotes != nil {
		if quote, ok := h.quotes.Get(ctx, key); ok {
			metrics.RecordCacheLookup(true)
			return jsonResponse(http.StatusOK, quote)
		}
		metrics.RecordCacheLookup(false)
	}

	quote := h.engine.Quote(profile)
	metrics.RecordQuote(quote)

	if h.quotes != nil {
		h.quotes.Set(ctx, key, quote)
	}

	return jsonResponse(http.StatusOK, quote)
}

func (h *AssessHandler) schedule(body []byte) response {
	var req ScheduleRequest
	if resp, ok := h.decode(body, &req); !ok {
		return resp
	}

	start := firstOfMonth(h.now())
	if req.StartDate != "" {
		// Format already checked by the validator.
		start, _ = time.Parse("2006-01-02", req.StartDate)
	}

	t := req.Terms()
	installments := affordability.Schedule(t.Principal, t.AnnualRatePercent, t.Years, start)
	if installments == nil {
		installments = []affordability.Installment{}
	}

	totalPayment, totalInterest := decimal.Zero, decimal.Zero
	for _, in := range installments {
		totalPayment = totalPayment.Add(in.Payment)
		totalInterest = totalInterest.Add(in.Interest)
	}

	return jsonResponse(http.StatusOK, ScheduleResponse{
		EMI:           affordability.ComputeInstallment(t.Principal, t.AnnualRatePercent, t.Years),
		Months:        len(installments),
		TotalPayment:  totalPayment,
		TotalInterest: totalInterest,
		Installments:  installments,
	})
}

func (h *AssessHandler) uploadBatch(ctx context.Context, body []byte, format string) response {
	batchID := uuid.NewString()

	parser := utils.NewCSVParser()
	applicants, rowErrors := parser.ParseApplicants(string(body), batchID)
	if len(applicants) == 0 {
		details := make([]string, 0, len(rowErrors))
		for _, e := range rowErrors {
			details = append(details, e.Error())
		}
		return jsonResponse(http.StatusBadRequest, ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: "No valid applicants found in CSV",
			Details: details,
		})
	}

	result, err := h.assessor.AssessBatch(ctx, batchID, models.AssessmentSourceUpload, applicants, rowErrors)
	if err != nil {
		utils.GetLogger().Error("Batch assessment failed", zap.String("batch_id", batchID), zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "Batch assessment failed")
	}

	return renderBatch(result, format)
}

func (h *AssessHandler) storedBatch(ctx context.Context, batchID, format string) response {
	if h.applicants == nil {
		return errorResponse(http.StatusServiceUnavailable, "Applicant database not configured")
	}
	if batchID == "" {
		return errorResponse(http.StatusBadRequest, "batchID is required")
	}

	result, err := h.assessor.AssessStoredBatch(ctx, h.applicants, batchID)
	if err != nil {
		if errors.Is(err, models.ErrBatchNotFound) {
			return errorResponse(http.StatusNotFound, "Batch not found: "+batchID)
		}
		utils.GetLogger().Error("Stored batch assessment failed", zap.String("batch_id", batchID), zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "Batch assessment failed")
	}

	return renderBatch(result, format)
}

func (h *AssessHandler) uploadURL(ctx context.Context) response {
	if h.uploads == nil {
		return errorResponse(http.StatusServiceUnavailable, "S3 uploads not configured")
	}

	batchID := uuid.NewString()
	result, err := h.uploads.GeneratePresignedUploadURL(ctx, s3service.UploadKey(batchID), "text/csv", uploadURLExpiryMinutes)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "Failed to generate upload URL")
	}

	return jsonResponse(http.StatusOK, UploadURLResponse{
		BatchID:   batchID,
		UploadURL: result.URL,
		S3Key:     result.Key,
		ExpiresAt: result.ExpiresAt,
	})
}

// renderBatch returns the batch as JSON, or as the CSV report when format
// is "csv".
func renderBatch(result *models.BatchAssessment, format string) response {
	if strings.EqualFold(format, "csv") {
		report, err := utils.WriteAssessmentReport(result.Records)
		if err != nil {
			return errorResponse(http.StatusInternalServerError, "Failed to render report")
		}
		return response{status: http.StatusOK, contentType: "text/csv", body: report}
	}
	return jsonResponse(http.StatusOK, result)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
