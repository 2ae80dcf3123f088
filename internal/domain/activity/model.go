package activity

import "time"

// Entry is an append-only audit record of a privileged action
type Entry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ActivityType Type      `json:"activity_type"`
	Details      string    `json:"details"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Type names an audited action
type Type string

// Activity types
const (
	TypeShareAlert   Type = "share_alert"
	TypeRevokeShare  Type = "revoke_share"
	TypeExportAlerts Type = "export_alerts"
)

// Actor is the authenticated caller of an operation together with the
// request metadata recorded in the activity log
type Actor struct {
	UserID    string
	IPAddress string
	UserAgent string
}

// Authenticated reports whether the actor resolved to a user
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}
