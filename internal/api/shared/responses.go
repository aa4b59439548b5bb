package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"-"` // Not serialized to JSON, used for logging
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code and message.
// It also sets the TraceID from the request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	errorResponse := ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: traceID,
	}

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, errorResponse)
}

// RespondWithErrorAndLog writes a JSON error response and also logs the detailed error.
// Only the sanitized userMessage reaches the client; the underlying error is
// logged for diagnosis, at ERROR level for 5xx and DEBUG otherwise.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	errorResponse := ErrorResponse{
		Error:   userMessage,
		Code:    status,
		TraceID: traceID,
	}

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", err.Error()),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if status == http.StatusTooManyRequests {
		// Rate limiting is an operational concern, log at WARN
		logLevel = slog.LevelWarn
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, errorResponse)
}
