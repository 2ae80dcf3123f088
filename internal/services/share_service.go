package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/alertflow/alertflow/internal/domain/activity"
	"github.com/alertflow/alertflow/internal/domain/alert"
	"github.com/alertflow/alertflow/internal/domain/profile"
	"github.com/alertflow/alertflow/internal/domain/share"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/metrics"
	"github.com/alertflow/alertflow/internal/pkg/validator"
)

// ShareService implements share.Service
type ShareService struct {
	shares      share.Repository
	alerts      alert.Repository
	profiles    profile.Repository
	recorder    activity.Recorder
	clock       clock.Clock
	newToken    TokenGenerator
	frontendURL string
	validator   *validator.Validator
	logger      *logger.Logger
}

// ShareServiceConfig carries the collaborators of a ShareService
type ShareServiceConfig struct {
	Shares      share.Repository
	Alerts      alert.Repository
	Profiles    profile.Repository
	Recorder    activity.Recorder
	Clock       clock.Clock
	NewToken    TokenGenerator
	FrontendURL string
	Logger      *logger.Logger
}

// NewShareService creates a new share service. Clock and NewToken default
// to the wall clock and GenerateShareToken.
func NewShareService(cfg ShareServiceConfig) share.Service {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.NewToken == nil {
		cfg.NewToken = GenerateShareToken
	}
	return &ShareService{
		shares:      cfg.Shares,
		alerts:      cfg.Alerts,
		profiles:    cfg.Profiles,
		recorder:    cfg.Recorder,
		clock:       cfg.Clock,
		newToken:    cfg.NewToken,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		validator:   validator.New(),
		logger:      cfg.Logger,
	}
}

// Create grants access to an alert
func (s *ShareService) Create(ctx context.Context, actor activity.Actor, in share.CreateInput) (*share.Created, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized("Authentication required")
	}

	if err := s.validateCreate(in); err != nil {
		return nil, err
	}

	a, err := s.alerts.GetByID(ctx, in.AlertID)
	if err != nil {
		return nil, err
	}

	p, err := s.requesterProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !p.Role.IsAdmin() && a.CreatedBy != actor.UserID {
		return nil, errors.Forbidden("Only the alert creator or an admin can share this alert")
	}

	token, err := s.newToken()
	if err != nil {
		return nil, errors.Internal("Failed to generate share token", err)
	}

	now := s.clock.Now().UTC()
	sh := &share.Share{
		AlertID:         a.ID,
		SharedWithEmail: strings.TrimSpace(in.SharedWithEmail),
		AccessType:      in.AccessType,
		SharedBy:        actor.UserID,
		Token:           token,
		IsActive:        true,
		CreatedAt:       now,
	}
	if in.ExpiresInHours != nil {
		expires := now.Add(time.Duration(*in.ExpiresInHours * float64(time.Hour)))
		sh.ExpiresAt = &expires
	}

	if err := s.shares.Create(ctx, sh); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create share")
		return nil, err
	}

	metrics.RecordShareCreated(string(sh.AccessType))
	s.recorder.Record(ctx, actor, activity.TypeShareAlert,
		fmt.Sprintf("Shared alert %s with %s", a.ID, sh.SharedWithEmail))

	s.logger.WithFields(map[string]interface{}{
		"share_id":    sh.ID,
		"alert_id":    a.ID,
		"user_id":     actor.UserID,
		"access_type": sh.AccessType,
	}).Info("Share created")

	return &share.Created{
		Share:    sh,
		ShareURL: s.frontendURL + "/shared-alert/" + sh.Token,
	}, nil
}

func (s *ShareService) validateCreate(in share.CreateInput) error {
	var details []validator.ValidationError

	if strings.TrimSpace(in.AlertID) == "" {
		details = append(details, validator.ValidationError{Field: "alert_id", Tag: "required", Message: "This field is required"})
	}
	if strings.TrimSpace(in.SharedWithEmail) == "" {
		details = append(details, validator.ValidationError{Field: "shared_with_email", Tag: "required", Message: "This field is required"})
	} else if err := s.validator.ValidateVar(strings.TrimSpace(in.SharedWithEmail), "email"); err != nil {
		details = append(details, validator.ValidationError{Field: "shared_with_email", Tag: "email", Message: "Invalid email format"})
	}
	if _, err := share.ParseAccessType(string(in.AccessType)); err != nil {
		details = append(details, validator.ValidationError{Field: "access_type", Tag: "oneof", Message: "Must be one of: read-only edit"})
	}
	if h := in.ExpiresInHours; h != nil && (*h <= 0 || *h > share.MaxExpiryHours) {
		details = append(details, validator.ValidationError{
			Field:   "expires_in_hours",
			Tag:     "range",
			Message: fmt.Sprintf("Must be greater than 0 and at most %d", share.MaxExpiryHours),
		})
	}

	if len(details) > 0 {
		return errors.ValidationError("Invalid share request", details)
	}
	return nil
}

// Revoke deactivates a share
func (s *ShareService) Revoke(ctx context.Context, actor activity.Actor, shareID string) error {
	if !actor.Authenticated() {
		return errors.Unauthorized("Authentication required")
	}
	if strings.TrimSpace(shareID) == "" {
		return errors.ValidationError("Invalid revoke request", []validator.ValidationError{
			{Field: "share_id", Tag: "required", Message: "This field is required"},
		})
	}

	sh, err := s.shares.GetByID(ctx, shareID)
	if err != nil {
		return err
	}

	if sh.SharedBy != actor.UserID {
		p, err := s.requesterProfile(ctx, actor)
		if err != nil {
			return err
		}
		if !p.Role.IsAdmin() {
			return errors.Forbidden("Only the user who created the share or an admin can revoke it")
		}
	}

	if err := s.shares.Deactivate(ctx, sh.ID); err != nil {
		s.logger.ErrorWithErr(err, "Failed to revoke share")
		return err
	}

	metrics.RecordShareRevoked()
	s.recorder.Record(ctx, actor, activity.TypeRevokeShare,
		fmt.Sprintf("Revoked share %s for alert %s", sh.ID, sh.AlertID))

	s.logger.WithFields(map[string]interface{}{
		"share_id": sh.ID,
		"alert_id": sh.AlertID,
		"user_id":  actor.UserID,
	}).Info("Share revoked")

	return nil
}

// List returns active shares visible to the actor
func (s *ShareService) List(ctx context.Context, actor activity.Actor, alertID string) ([]*share.Share, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized("Authentication required")
	}

	filter := share.ListFilter{AlertID: strings.TrimSpace(alertID)}

	p, err := s.profiles.GetByUserID(ctx, actor.UserID)
	switch {
	case errors.HasCode(err, errors.ErrCodeNotFound):
		filter.SharedBy = actor.UserID
	case err != nil:
		return nil, err
	case !p.Role.IsAdmin():
		filter.SharedBy = actor.UserID
	}

	return s.shares.ListActive(ctx, filter)
}

// Access resolves a share token. Unknown, revoked and expired tokens are
// indistinguishable to the caller.
func (s *ShareService) Access(ctx context.Context, token string) (*share.Access, error) {
	if token == "" {
		metrics.RecordShareAccess(metrics.AccessDenied)
		return nil, errors.ShareUnavailable()
	}

	sh, err := s.shares.GetActiveByToken(ctx, token)
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		metrics.RecordShareAccess(metrics.AccessDenied)
		return nil, errors.ShareUnavailable()
	}
	if err != nil {
		return nil, err
	}

	if !sh.Usable(s.clock.Now()) {
		metrics.RecordShareAccess(metrics.AccessDenied)
		return nil, errors.ShareUnavailable()
	}

	a, err := s.alerts.GetByID(ctx, sh.AlertID)
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		metrics.RecordShareAccess(metrics.AccessDenied)
		return nil, errors.ShareUnavailable()
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordShareAccess(metrics.AccessGranted)
	return &share.Access{
		Alert:      a,
		Share:      sh,
		AccessType: sh.AccessType,
	}, nil
}

func (s *ShareService) requesterProfile(ctx context.Context, actor activity.Actor) (*profile.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, actor.UserID)
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		return nil, errors.Forbidden("Profile not found")
	}
	return p, err
}
