package client

import "time"

// Alert is a security alert as returned by share access
type Alert struct {
	ID                 string     `json:"id"`
	RuleName           string     `json:"rule_name"`
	ShortDescription   string     `json:"short_description"`
	Description        string     `json:"description"`
	Impact             string     `json:"impact"`
	Mitigation         string     `json:"mitigation"`
	FalsePositiveCheck string     `json:"false_positive_check"`
	Findings           string     `json:"findings"`
	Severity           string     `json:"severity"` // Low, Medium, High, Critical
	Category           string     `json:"category"`
	Priority           string     `json:"priority"`
	Source             string     `json:"source"`
	Tags               []string   `json:"tags"`
	IsActive           bool       `json:"is_active"`
	IsInProgress       bool       `json:"is_in_progress"`
	CreatedBy          string     `json:"created_by"`
	AssignedTo         *string    `json:"assigned_to"`
	AttachedFile       *string    `json:"attached_file"`
	ExternalURL        *string    `json:"external_url"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CreatedByProfile   *PersonRef `json:"created_by_profile"`
	AssignedToProfile  *PersonRef `json:"assigned_to_profile"`
}

// PersonRef identifies a creator or assignee
type PersonRef struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Share is an alert share grant
type Share struct {
	ID              string     `json:"id"`
	AlertID         string     `json:"alert_id"`
	SharedWithEmail string     `json:"shared_with_email"`
	AccessType      string     `json:"access_type"` // read-only, edit
	SharedBy        string     `json:"shared_by"`
	Token           string     `json:"shared_link"`
	IsActive        bool       `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Version  string `json:"version,omitempty"`
}
