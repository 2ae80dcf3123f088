package services

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/alertflow/alertflow/internal/domain/activity"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/metrics"
)

// ActivityRecorder implements activity.Recorder. A failed append is logged
// and counted but never reaches the caller.
type ActivityRecorder struct {
	repo   activity.Repository
	clock  clock.Clock
	logger *logger.Logger
}

// NewActivityRecorder creates a new activity recorder
func NewActivityRecorder(repo activity.Repository, clk clock.Clock, log *logger.Logger) activity.Recorder {
	if clk == nil {
		clk = clock.New()
	}
	return &ActivityRecorder{
		repo:   repo,
		clock:  clk,
		logger: log,
	}
}

// Record appends one entry for actor
func (r *ActivityRecorder) Record(ctx context.Context, actor activity.Actor, activityType activity.Type, details string) {
	entry := &activity.Entry{
		UserID:       actor.UserID,
		ActivityType: activityType,
		Details:      details,
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
		CreatedAt:    r.clock.Now().UTC(),
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		metrics.RecordActivityFailure(string(activityType))
		r.logger.WithFields(map[string]interface{}{
			"user_id":       actor.UserID,
			"activity_type": activityType,
		}).WarnWithErr(err, "Failed to record activity")
	}
}
