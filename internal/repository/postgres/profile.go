package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/alertflow/alertflow/internal/domain/profile"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/metrics"
)

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) profile.Repository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	defer metrics.RecordDBQuery("select", "profiles", time.Now())

	query := `
		SELECT id, user_id, username, email, role, created_at, updated_at
		FROM profiles WHERE user_id = ?
	`

	var p profile.Profile
	var role, createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), userID).Scan(
		&p.ID, &p.UserID, &p.Username, &p.Email, &role, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Profile")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get profile", err)
	}

	p.Role = profile.ParseRole(role)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, errors.DatabaseError("Failed to get profile", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, errors.DatabaseError("Failed to get profile", err)
	}
	return &p, nil
}
