package alert

import (
	"fmt"
	"strings"
	"time"
)

// Alert is a security finding tracked by AlertFlow
type Alert struct {
	ID                 string     `json:"id"`
	RuleName           string     `json:"rule_name"`
	ShortDescription   string     `json:"short_description"`
	Description        string     `json:"description"`
	Impact             string     `json:"impact"`
	Mitigation         string     `json:"mitigation"`
	FalsePositiveCheck string     `json:"false_positive_check"`
	Findings           string     `json:"findings"`
	Severity           Severity   `json:"severity"`
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

// PersonRef is the display identity of a creator or assignee
type PersonRef struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DisplayName prefers the username and falls back to the email
func (p *PersonRef) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Username != "" {
		return p.Username
	}
	return p.Email
}

// Severity of an alert
type Severity string

// Alert severity levels
const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Severities lists every valid severity from lowest to highest
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// ParseSeverity accepts any letter case and returns the canonical value
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range Severities {
		if strings.EqualFold(strings.TrimSpace(s), string(sev)) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("invalid severity %q: must be one of Low, Medium, High, Critical", s)
}

// Valid reports whether s is one of the canonical severities
func (s Severity) Valid() bool {
	for _, sev := range Severities {
		if s == sev {
			return true
		}
	}
	return false
}
