package profile

import "context"

// Repository defines profile lookups
type Repository interface {
	// GetByUserID retrieves the profile of an authenticated user
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
}
