package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alertflow/alertflow/internal/domain/alert"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/metrics"
)

type AlertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) alert.Repository {
	return &AlertRepository{db: db}
}

const alertColumns = `
	a.id, a.rule_name, a.short_description, a.description, a.impact, a.mitigation,
	a.false_positive_check, a.findings, a.severity, a.category, a.priority, a.source,
	a.tags, a.is_active, a.is_in_progress, a.created_by, a.assigned_to, a.attached_file,
	a.external_url, a.created_at, a.updated_at,
	cp.username, cp.email, ap.username, ap.email
	FROM alerts a
	LEFT JOIN profiles cp ON cp.user_id = a.created_by
	LEFT JOIN profiles ap ON ap.user_id = a.assigned_to`

func (r *AlertRepository) GetByID(ctx context.Context, id string) (*alert.Alert, error) {
	defer metrics.RecordDBQuery("select", "alerts", time.Now())

	row := r.db.QueryRowContext(ctx, r.db.Rebind("SELECT "+alertColumns+" WHERE a.id = ?"), id)
	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert", err)
	}
	return a, nil
}

func (r *AlertRepository) List(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error) {
	defer metrics.RecordDBQuery("select", "alerts", time.Now())

	var where []string
	var args []interface{}

	if len(filter.Severity) > 0 {
		where = append(where, fmt.Sprintf("a.severity IN (%s)", placeholders(len(filter.Severity))))
		for _, s := range filter.Severity {
			args = append(args, string(s))
		}
	}
	if filter.IsActive != nil {
		where = append(where, "a.is_active = ?")
		args = append(args, *filter.IsActive)
	}
	if filter.IsInProgress != nil {
		where = append(where, "a.is_in_progress = ?")
		args = append(args, *filter.IsInProgress)
	}
	if filter.AssignedTo != nil {
		where = append(where, "a.assigned_to = ?")
		args = append(args, *filter.AssignedTo)
	}
	if filter.CreatedBy != nil {
		where = append(where, "a.created_by = ?")
		args = append(args, *filter.CreatedBy)
	}
	if filter.DateFrom != nil {
		where = append(where, "a.created_at >= ?")
		args = append(args, formatTime(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		where = append(where, "a.created_at <= ?")
		args = append(args, formatTime(*filter.DateTo))
	}

	query := "SELECT " + alertColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.created_at DESC, a.id DESC"

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list alerts", err)
	}
	defer rows.Close()

	alerts := make([]*alert.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list alerts", err)
	}

	return alerts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var a alert.Alert
	var severity, tags, createdAt, updatedAt string
	var assignedTo, attachedFile, externalURL sql.NullString
	var creatorName, creatorEmail, assigneeName, assigneeEmail sql.NullString

	err := row.Scan(
		&a.ID, &a.RuleName, &a.ShortDescription, &a.Description, &a.Impact, &a.Mitigation,
		&a.FalsePositiveCheck, &a.Findings, &severity, &a.Category, &a.Priority, &a.Source,
		&tags, &a.IsActive, &a.IsInProgress, &a.CreatedBy, &assignedTo, &attachedFile,
		&externalURL, &createdAt, &updatedAt,
		&creatorName, &creatorEmail, &assigneeName, &assigneeEmail,
	)
	if err != nil {
		return nil, err
	}

	a.Severity = alert.Severity(severity)
	a.AssignedTo = nullStringPtr(assignedTo)
	a.AttachedFile = nullStringPtr(attachedFile)
	a.ExternalURL = nullStringPtr(externalURL)
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("alert %s: %w", a.ID, err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("alert %s: %w", a.ID, err)
	}
	a.CreatedByProfile = personRef(creatorName, creatorEmail)
	a.AssignedToProfile = personRef(assigneeName, assigneeEmail)

	a.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
			return nil, fmt.Errorf("alert %s has malformed tags: %w", a.ID, err)
		}
	}

	return &a, nil
}

// personRef is nil when the join found no profile
func personRef(username, email sql.NullString) *alert.PersonRef {
	if !username.Valid && !email.Valid {
		return nil
	}
	return &alert.PersonRef{Username: username.String, Email: email.String}
}
