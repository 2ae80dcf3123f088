package share

import "context"

// Repository defines the interface for share persistence
type Repository interface {
	// Create inserts a new share; ID and CreatedAt are assigned by the store
	Create(ctx context.Context, s *Share) error

	// GetByID retrieves a share regardless of its state
	GetByID(ctx context.Context, id string) (*Share, error)

	// GetActiveByToken retrieves an active share by exact token match
	GetActiveByToken(ctx context.Context, token string) (*Share, error)

	// Deactivate marks a share inactive. Deactivating an inactive share succeeds.
	Deactivate(ctx context.Context, id string) error

	// ListActive retrieves active shares, newest first
	ListActive(ctx context.Context, filter ListFilter) ([]*Share, error)
}
