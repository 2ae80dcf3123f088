package share

import (
	"context"

	"github.com/alertflow/alertflow/internal/domain/activity"
)

// Service defines share link management
type Service interface {
	// Create grants access to an alert. Only admins and the alert's creator may share.
	Create(ctx context.Context, actor activity.Actor, in CreateInput) (*Created, error)

	// Revoke deactivates a share. Only admins and the granter may revoke.
	Revoke(ctx context.Context, actor activity.Actor, shareID string) error

	// List returns active shares; non-admins only see their own grants
	List(ctx context.Context, actor activity.Actor, alertID string) ([]*Share, error)

	// Access resolves a token anonymously
	Access(ctx context.Context, token string) (*Access, error)
}
