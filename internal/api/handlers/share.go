package handlers

import (
	"net/http"

	"github.com/alertflow/alertflow/internal/api/dto"
	"github.com/alertflow/alertflow/internal/api/middleware"
	"github.com/alertflow/alertflow/internal/domain/share"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/validator"
)

// Share actions selected by the action query parameter
const (
	ActionCreate = "create"
	ActionRevoke = "revoke"
	ActionList   = "list"
	ActionAccess = "access"
)

type ShareHandler struct {
	service   share.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewShareHandler(service share.Service, log *logger.Logger, val *validator.Validator) *ShareHandler {
	return &ShareHandler{service: service, logger: log, validator: val}
}

// Handle dispatches on the action query parameter. The route is mounted with
// optional authentication; access is the only anonymous action.
// @Summary Manage alert share links
// @Description create (POST), revoke (POST), list (GET) need a bearer token; access (GET) is anonymous
// @Tags Shares
// @Accept json
// @Produce json
// @Param action query string true "create | revoke | list | access"
// @Param alert_id query string false "Restrict list to one alert"
// @Param token query string false "Share token for access"
// @Param request body dto.CreateShareRequest false "Body for create; revoke takes {share_id}"
// @Success 200 {object} dto.CreateShareResponse "create result; other actions return their own payloads"
// @Failure 400 {object} utils.ErrorResponse "Invalid action or validation error"
// @Failure 401 {object} utils.ErrorResponse "Authentication required"
// @Failure 403 {object} utils.ErrorResponse "Not the alert creator or an admin"
// @Failure 404 {object} utils.ErrorResponse "Alert or share not found, or invalid/expired share link"
// @Failure 405 {object} utils.ErrorResponse "Wrong method for the action"
// @Security BearerAuth
// @Router /functions/v1/share-alert [post]
func (h *ShareHandler) Handle(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	var method string
	var next http.HandlerFunc
	switch action {
	case ActionCreate:
		method, next = http.MethodPost, h.create
	case ActionRevoke:
		method, next = http.MethodPost, h.revoke
	case ActionList:
		method, next = http.MethodGet, h.list
	case ActionAccess:
		method, next = http.MethodGet, h.access
	default:
		respondError(w, r, h.logger, errors.BadRequest("Invalid action"))
		return
	}

	if r.Method != method {
		w.Header().Set("Allow", method+", OPTIONS")
		respondError(w, r, h.logger, errors.MethodNotAllowed(r.Method))
		return
	}

	next(w, r)
}

func (h *ShareHandler) create(w http.ResponseWriter, r *http.Request) {
	if err := requireUser(r); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req dto.CreateShareRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), middleware.Actor(r), req.ToInput())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.CreateShareResponse{
		Success:  true,
		Share:    created.Share,
		ShareURL: created.ShareURL,
	})
}

func (h *ShareHandler) revoke(w http.ResponseWriter, r *http.Request) {
	if err := requireUser(r); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req dto.RevokeShareRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.service.Revoke(r.Context(), middleware.Actor(r), req.ShareID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *ShareHandler) list(w http.ResponseWriter, r *http.Request) {
	if err := requireUser(r); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	shares, err := h.service.List(r.Context(), middleware.Actor(r), r.URL.Query().Get("alert_id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ListSharesResponse{Shares: shares})
}

func (h *ShareHandler) access(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Access(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
