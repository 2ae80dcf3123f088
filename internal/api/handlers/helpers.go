package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/alertflow/alertflow/internal/api/middleware"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/utils"
	"github.com/alertflow/alertflow/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	utils.WriteJSON(w, status, data)
}

// respondError renders err and logs server-side failures with their cause
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal("Internal server error", err)
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithFields(map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.GetRequestID(r),
		}).ErrorWithErr(err, appErr.Message)
	}
	utils.WriteAppError(w, appErr)
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// An empty body decodes as an empty object.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validator, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		return errors.BadRequest("Invalid request body")
	}
	if errs := v.Validate(dst); len(errs) > 0 {
		return errors.ValidationError("Validation failed", errs)
	}
	return nil
}

// requireUser rejects anonymous requests
func requireUser(r *http.Request) error {
	if _, ok := middleware.GetUserID(r); !ok {
		return errors.Unauthorized("Authentication required")
	}
	return nil
}
