package client

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ExportService handles alert export API calls
type ExportService struct {
	client *Client
}

// ExportFilters narrows an export. Unset fields impose no constraint.
type ExportFilters struct {
	Severity     []string   `json:"severity,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
	IsInProgress *bool      `json:"is_in_progress,omitempty"`
	AssignedTo   *string    `json:"assigned_to,omitempty"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	DateFrom     *time.Time `json:"date_from,omitempty"`
	DateTo       *time.Time `json:"date_to,omitempty"`
}

// ExportOptions contains options for an export
type ExportOptions struct {
	Format  string // csv (default) or json
	Filters *ExportFilters
}

// Export is a downloaded export document
type Export struct {
	Filename    string
	ContentType string
	Count       int
	Content     []byte
}

// Download exports alerts matching opts
func (s *ExportService) Download(ctx context.Context, opts *ExportOptions) (*Export, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Format != "" {
			query.Set("format", opts.Format)
		}
		if opts.Filters != nil {
			raw, err := json.Marshal(opts.Filters)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal filters: %w", err)
			}
			query.Set("filters", string(raw))
		}
	}

	path := ExportAlertsPath
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	req, err := s.client.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	resp, body, err := s.client.do(req)
	if err != nil {
		return nil, err
	}

	out := &Export{
		ContentType: resp.Header.Get("Content-Type"),
		Content:     body,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		out.Filename = params["filename"]
	}
	if n, err := strconv.Atoi(resp.Header.Get("X-Export-Count")); err == nil {
		out.Count = n
	}
	return out, nil
}
