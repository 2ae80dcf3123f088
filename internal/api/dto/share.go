package dto

import "github.com/alertflow/alertflow/internal/domain/share"

// CreateShareRequest is the body of action=create
type CreateShareRequest struct {
	AlertID         string   `json:"alert_id" validate:"required"`
	SharedWithEmail string   `json:"shared_with_email" validate:"required,email"`
	AccessType      string   `json:"access_type" validate:"required,oneof=read-only edit"`
	ExpiresInHours  *float64 `json:"expires_in_hours,omitempty" validate:"omitempty,gt=0,lte=87600"`
}

// ToInput converts the request into service input
func (r CreateShareRequest) ToInput() share.CreateInput {
	return share.CreateInput{
		AlertID:         r.AlertID,
		SharedWithEmail: r.SharedWithEmail,
		AccessType:      share.AccessType(r.AccessType),
		ExpiresInHours:  r.ExpiresInHours,
	}
}

// CreateShareResponse is returned by action=create
type CreateShareResponse struct {
	Success  bool         `json:"success"`
	Share    *share.Share `json:"share"`
	ShareURL string       `json:"share_url"`
}

// RevokeShareRequest is the body of action=revoke
type RevokeShareRequest struct {
	ShareID string `json:"share_id" validate:"required"`
}

// SuccessResponse acknowledges an operation with no payload
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ListSharesResponse is returned by action=list
type ListSharesResponse struct {
	Shares []*share.Share `json:"shares"`
}
