package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/alertflow/alertflow/internal/api/middleware"
	"github.com/alertflow/alertflow/internal/domain/export"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/logger"
)

type ExportHandler struct {
	service export.Service
	logger  *logger.Logger
}

func NewExportHandler(service export.Service, log *logger.Logger) *ExportHandler {
	return &ExportHandler{service: service, logger: log}
}

// Export streams filtered alerts as a download
// @Summary Export alerts
// @Description Export alerts matching a JSON filter document as CSV or JSON. Editors and admins only.
// @Tags Export
// @Produce text/csv
// @Produce json
// @Param format query string false "csv (default) or json"
// @Param filters query string false "JSON object: severity, is_active, is_in_progress, assigned_to, created_by, date_from, date_to"
// @Success 200 {file} file "Export document"
// @Failure 400 {object} utils.ErrorResponse "Invalid format or filters"
// @Failure 401 {object} utils.ErrorResponse "Authentication required"
// @Failure 403 {object} utils.ErrorResponse "Insufficient permissions"
// @Security BearerAuth
// @Router /functions/v1/export-alerts [get]
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, OPTIONS")
		respondError(w, r, h.logger, errors.MethodNotAllowed(r.Method))
		return
	}
	if err := requireUser(r); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	q := r.URL.Query()
	doc, err := h.service.Export(r.Context(), middleware.Actor(r), export.Format(q.Get("format")), q.Get("filters"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.Header().Set("X-Export-Count", strconv.Itoa(doc.Count))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Content)
}
