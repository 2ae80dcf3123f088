package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/alertflow/alertflow/internal/api/dto"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/utils"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db      Pinger
	version string
	logger  *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, version string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		logger:  log,
	}
}

// Healthz handles liveness check
// @Summary Liveness check
// @Description Check if the application is alive
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Application is alive"
// @Router /health [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Version: h.version})
}

// Readyz handles readiness check
// @Summary Readiness check
// @Description Check if the application is ready to serve requests
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Application is ready"
// @Failure 503 {object} utils.ErrorResponse "Service unavailable"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorWithErr(err, "Database ping failed")
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database connection failed")
		return
	}

	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ready", Database: "connected", Version: h.version})
}
