package client

import (
	"context"
	"net/http"
	"net/url"
)

// ShareService handles share link API calls
type ShareService struct {
	client *Client
}

// CreateShareRequest represents a request to share an alert
type CreateShareRequest struct {
	AlertID         string   `json:"alert_id"`
	SharedWithEmail string   `json:"shared_with_email"`
	AccessType      string   `json:"access_type"` // read-only, edit
	ExpiresInHours  *float64 `json:"expires_in_hours,omitempty"`
}

// CreateShareResponse is returned when a share is created
type CreateShareResponse struct {
	Success  bool   `json:"success"`
	Share    *Share `json:"share"`
	ShareURL string `json:"share_url"`
}

// AccessResponse is returned for a valid share token
type AccessResponse struct {
	Alert      *Alert `json:"alert"`
	Share      *Share `json:"share"`
	AccessType string `json:"access_type"`
}

type listSharesResponse struct {
	Shares []Share `json:"shares"`
}

func sharePath(action string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("action", action)
	return ShareAlertPath + "?" + query.Encode()
}

// Create shares an alert with a recipient
func (s *ShareService) Create(ctx context.Context, req CreateShareRequest) (*CreateShareResponse, error) {
	var resp CreateShareResponse
	if err := s.client.doRequest(ctx, http.MethodPost, sharePath("create", nil), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Revoke deactivates a share
func (s *ShareService) Revoke(ctx context.Context, shareID string) error {
	body := map[string]string{"share_id": shareID}
	return s.client.doRequest(ctx, http.MethodPost, sharePath("revoke", nil), body, nil)
}

// List returns active shares visible to the caller, optionally for one alert
func (s *ShareService) List(ctx context.Context, alertID string) ([]Share, error) {
	query := url.Values{}
	if alertID != "" {
		query.Set("alert_id", alertID)
	}

	var resp listSharesResponse
	if err := s.client.doRequest(ctx, http.MethodGet, sharePath("list", query), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Shares, nil
}

// Access resolves a share token. No bearer token is required.
func (s *ShareService) Access(ctx context.Context, token string) (*AccessResponse, error) {
	query := url.Values{}
	query.Set("token", token)

	var resp AccessResponse
	if err := s.client.doRequest(ctx, http.MethodGet, sharePath("access", query), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
