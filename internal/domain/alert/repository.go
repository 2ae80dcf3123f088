package alert

import "context"

// Repository defines read access to alerts
type Repository interface {
	// GetByID retrieves an alert with its creator and assignee profiles
	GetByID(ctx context.Context, id string) (*Alert, error)

	// List retrieves every alert matching the filter, newest first
	List(ctx context.Context, filter Filter) ([]*Alert, error)
}
