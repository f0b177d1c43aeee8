// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/estatefolio/investor-dashboard/internal/logging"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// PartialResponse is returned with 207 Multi-Status when the primary write
// succeeded but a follow-up step failed.
type PartialResponse struct {
	Data  any    `json:"data"`
	Error string `json:"error"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logging.Default().Error("failed to encode JSON response", zap.Error(err))
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// RespondPartial sends 207 Multi-Status with the persisted data and the error
// of the step that failed afterwards.
func RespondPartial(w http.ResponseWriter, data any, err error) {
	RespondJSON(w, http.StatusMultiStatus, PartialResponse{
		Data:  data,
		Error: err.Error(),
	})
}
