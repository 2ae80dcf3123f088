package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alertflow/alertflow/internal/domain/activity"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/metrics"
)

type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, e *activity.Entry) error {
	defer metrics.RecordDBQuery("insert", "user_activity_log", time.Now())

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO user_activity_log (id, user_id, activity_type, details, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		e.ID, e.UserID, string(e.ActivityType), e.Details,
		nullIfEmpty(e.IPAddress), nullIfEmpty(e.UserAgent), formatTime(e.CreatedAt),
	)
	if err != nil {
		return errors.DatabaseError("Failed to record activity", err)
	}

	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
