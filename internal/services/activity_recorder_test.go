package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertflow/alertflow/internal/domain/activity"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/testutil"
)

func TestActivityRecorder_Record(t *testing.T) {
	repo := testutil.NewMockActivityRepository()
	clk := clock.NewMock()
	clk.Set(time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC))

	rec := NewActivityRecorder(repo, clk, logger.Nop())
	rec.Record(context.Background(), activity.Actor{UserID: "u-1", IPAddress: "203.0.113.5", UserAgent: "curl/8"},
		activity.TypeRevokeShare, "Revoked share s-1 for alert a-1")

	entries := repo.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "u-1", entries[0].UserID)
	assert.Equal(t, activity.TypeRevokeShare, entries[0].ActivityType)
	assert.Equal(t, "203.0.113.5", entries[0].IPAddress)
	assert.Equal(t, "curl/8", entries[0].UserAgent)
	assert.Equal(t, clk.Now(), entries[0].CreatedAt)
}

func TestActivityRecorder_SwallowsFailures(t *testing.T) {
	repo := testutil.NewMockActivityRepository()
	repo.AppendError = stderrors.New("insert failed")

	rec := NewActivityRecorder(repo, nil, logger.Nop())
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), activity.Actor{UserID: "u-1"}, activity.TypeShareAlert, "x")
	})
	assert.Empty(t, repo.All())
}
