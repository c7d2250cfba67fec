package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"loan-affordability-engine/internal/utils"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details []string          `json:"details,omitempty"`
}

// response is a transport-neutral reply, rendered either to an
// http.ResponseWriter or to an API Gateway proxy response.
type response struct {
	status      int
	contentType string
	body        []byte
}

func jsonResponse(status int, payload interface{}) response {
	body, err := json.Marshal(payload)
	if err != nil {
		utils.GetLogger().Error("Failed to encode JSON response", utils.Error(err))
		return response{
			status:      http.StatusInternalServerError,
			contentType: "application/json",
			body:        []byte(`{"error":"Internal Server Error"}`),
		}
	}
	return response{status: status, contentType: "application/json", body: body}
}

func errorResponse(status int, message string) response {
	return jsonResponse(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func validationErrorResponse(fields map[string]string) response {
	return jsonResponse(http.StatusBadRequest, ErrorResponse{
		Error:   http.StatusText(http.StatusBadRequest),
		Message: "Request validation failed",
		Fields:  fields,
	})
}

func (r response) write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", r.contentType)
	w.WriteHeader(r.status)
	if _, err := w.Write(r.body); err != nil {
		utils.GetLogger().Warn("Failed to write response", utils.Error(err))
	}
}

func (r response) apiGateway(headers map[string]string) events.APIGatewayProxyResponse {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["Content-Type"] = r.contentType

	return events.APIGatewayProxyResponse{
		StatusCode: r.status,
		Headers:    out,
		Body:       string(r.body),
	}
}

// corsHeaders are attached to every Lambda response. The HTTP server uses
// rs/cors instead.
func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	}
}

func requestBody(request events.APIGatewayProxyRequest) ([]byte, error) {
	if request.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(request.Body)
	}
	return []byte(request.Body), nil
}
