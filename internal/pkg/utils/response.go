package utils

import (
	"encoding/json"
	"net/http"

	"github.com/alertflow/alertflow/internal/pkg/errors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteAppError writes an error JSON response from AppError
func WriteAppError(w http.ResponseWriter, err *errors.AppError) error {
	return WriteJSON(w, err.StatusCode, ErrorResponse{
		Error:   err.Message,
		Code:    err.Code,
		Details: err.Details,
	})
}

// WriteError renders any error. Errors that are not AppErrors are reported
// as a generic internal failure so causes never leak to the caller.
func WriteError(w http.ResponseWriter, err error) error {
	if appErr, ok := errors.As(err); ok {
		return WriteAppError(w, appErr)
	}
	return WriteAppError(w, errors.Internal("Internal server error", err))
}

// WriteErrorMessage writes a simple error message
func WriteErrorMessage(w http.ResponseWriter, status int, code, message string) error {
	return WriteJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
