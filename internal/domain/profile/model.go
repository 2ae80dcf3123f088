package profile

import (
	"strings"
	"time"
)

// Profile is the role and identity of an authenticated user
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role is one of three privilege tiers: admin > editor > read-only
type Role string

// Roles
const (
	RoleAdmin    Role = "admin"
	RoleEditor   Role = "editor"
	RoleReadOnly Role = "read-only"
)

// ParseRole maps the role spellings found in stored profiles onto the
// canonical tiers. Anything unrecognised is treated as read-only.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrator", "owner":
		return RoleAdmin
	case "editor", "edit":
		return RoleEditor
	default:
		return RoleReadOnly
	}
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleReadOnly:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r is as privileged as min
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank() && r.rank() > 0
}

// IsAdmin reports whether r is the most-privileged tier
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanExport reports whether r may export alerts
func (r Role) CanExport() bool {
	return r.AtLeast(RoleEditor)
}
