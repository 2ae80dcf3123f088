package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alertflow/alertflow/internal/domain/share"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/metrics"
)

type ShareRepository struct {
	db *DB
}

func NewShareRepository(db *DB) share.Repository {
	return &ShareRepository{db: db}
}

const shareColumns = `id, alert_id, shared_with_email, access_type, shared_by, shared_link,
	is_active, expires_at, created_at FROM alert_shares`

func (r *ShareRepository) Create(ctx context.Context, s *share.Share) error {
	defer metrics.RecordDBQuery("insert", "alert_shares", time.Now())

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO alert_shares (id, alert_id, shared_with_email, access_type, shared_by,
			shared_link, is_active, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		s.ID, s.AlertID, s.SharedWithEmail, string(s.AccessType), s.SharedBy,
		s.Token, s.IsActive, formatTimePtr(s.ExpiresAt), formatTime(s.CreatedAt),
	)
	if isUniqueViolation(err) {
		return errors.Conflict("Share token already exists")
	}
	if err != nil {
		return errors.DatabaseError("Failed to create share", err)
	}

	return nil
}

func (r *ShareRepository) GetByID(ctx context.Context, id string) (*share.Share, error) {
	defer metrics.RecordDBQuery("select", "alert_shares", time.Now())

	row := r.db.QueryRowContext(ctx, r.db.Rebind("SELECT "+shareColumns+" WHERE id = ?"), id)
	s, err := scanShare(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Share")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get share", err)
	}
	return s, nil
}

func (r *ShareRepository) GetActiveByToken(ctx context.Context, token string) (*share.Share, error) {
	defer metrics.RecordDBQuery("select", "alert_shares", time.Now())

	row := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT "+shareColumns+" WHERE shared_link = ? AND is_active = ?"), token, true)
	s, err := scanShare(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Share")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get share", err)
	}
	return s, nil
}

func (r *ShareRepository) Deactivate(ctx context.Context, id string) error {
	defer metrics.RecordDBQuery("update", "alert_shares", time.Now())

	result, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE alert_shares SET is_active = ? WHERE id = ?"), false, id)
	if err != nil {
		return errors.DatabaseError("Failed to revoke share", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Share")
	}

	return nil
}

func (r *ShareRepository) ListActive(ctx context.Context, filter share.ListFilter) ([]*share.Share, error) {
	defer metrics.RecordDBQuery("select", "alert_shares", time.Now())

	where := []string{"is_active = ?"}
	args := []interface{}{true}

	if filter.AlertID != "" {
		where = append(where, "alert_id = ?")
		args = append(args, filter.AlertID)
	}
	if filter.SharedBy != "" {
		where = append(where, "shared_by = ?")
		args = append(args, filter.SharedBy)
	}

	query := "SELECT " + shareColumns + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list shares", err)
	}
	defer rows.Close()

	shares := make([]*share.Share, 0)
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan share", err)
		}
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list shares", err)
	}

	return shares, nil
}

func scanShare(row rowScanner) (*share.Share, error) {
	var s share.Share
	var accessType, createdAt string
	var expiresAt sql.NullString

	err := row.Scan(
		&s.ID, &s.AlertID, &s.SharedWithEmail, &accessType, &s.SharedBy, &s.Token,
		&s.IsActive, &expiresAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	s.AccessType = share.AccessType(accessType)
	if s.ExpiresAt, err = parseNullTime(expiresAt); err != nil {
		return nil, fmt.Errorf("share %s: %w", s.ID, err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("share %s: %w", s.ID, err)
	}
	return &s, nil
}
