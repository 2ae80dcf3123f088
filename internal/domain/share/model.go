package share

import (
	"fmt"
	"time"

	"github.com/alertflow/alertflow/internal/domain/alert"
)

// Share grants bearer access to one alert through an unguessable token.
// Shares are deactivated, never deleted.
type Share struct {
	ID              string     `json:"id"`
	AlertID         string     `json:"alert_id"`
	SharedWithEmail string     `json:"shared_with_email"`
	AccessType      AccessType `json:"access_type"`
	SharedBy        string     `json:"shared_by"`
	Token           string     `json:"shared_link"`
	IsActive        bool       `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Usable reports whether the share may be resolved at instant now
func (s *Share) Usable(now time.Time) bool {
	if s == nil || !s.IsActive {
		return false
	}
	return s.ExpiresAt == nil || now.Before(*s.ExpiresAt)
}

// AccessType is the capability a share grants
type AccessType string

// Access types
const (
	AccessReadOnly AccessType = "read-only"
	AccessEdit     AccessType = "edit"
)

// ParseAccessType accepts exactly read-only or edit
func ParseAccessType(s string) (AccessType, error) {
	switch AccessType(s) {
	case AccessReadOnly, AccessEdit:
		return AccessType(s), nil
	default:
		return "", fmt.Errorf("invalid access type %q", s)
	}
}

// MaxExpiryHours bounds expires_in_hours
const MaxExpiryHours = 87600

// CreateInput carries the caller-supplied fields of a new share
type CreateInput struct {
	AlertID         string
	SharedWithEmail string
	AccessType      AccessType
	ExpiresInHours  *float64
}

// Created is the result of a successful CreateShare
type Created struct {
	Share    *Share `json:"share"`
	ShareURL string `json:"share_url"`
}

// Access is the payload returned for a valid share token
type Access struct {
	Alert      *alert.Alert `json:"alert"`
	Share      *Share       `json:"share"`
	AccessType AccessType   `json:"access_type"`
}

// ListFilter narrows ListShares. Only active shares are ever listed.
type ListFilter struct {
	AlertID  string
	SharedBy string
}
