package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertflow/alertflow/internal/domain/activity"
	"github.com/alertflow/alertflow/internal/domain/profile"
	"github.com/alertflow/alertflow/internal/domain/share"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/testutil"
)

type shareFixture struct {
	service  share.Service
	shares   *testutil.MockShareRepository
	alerts   *testutil.MockAlertRepository
	profiles *testutil.MockProfileRepository
	activity *testutil.MockActivityRepository
	clock    *clock.Mock
}

// newShareFixture wires a share service with alert-1 created by "creator"
func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()

	f := &shareFixture{
		shares: testutil.NewMockShareRepository(),
		alerts: testutil.NewMockAlertRepository(testutil.Alert("alert-1", "creator")),
		profiles: testutil.NewMockProfileRepository(
			testutil.Profile("admin", profile.RoleAdmin),
			testutil.Profile("creator", profile.RoleEditor),
			testutil.Profile("editor", profile.RoleEditor),
			testutil.Profile("viewer", profile.RoleReadOnly),
		),
		activity: testutil.NewMockActivityRepository(),
		clock:    clock.NewMock(),
	}
	f.clock.Set(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))

	log := logger.Nop()
	f.service = NewShareService(ShareServiceConfig{
		Shares:      f.shares,
		Alerts:      f.alerts,
		Profiles:    f.profiles,
		Recorder:    NewActivityRecorder(f.activity, f.clock, log),
		Clock:       f.clock,
		FrontendURL: "https://app.example.com/",
		Logger:      log,
	})
	return f
}

func actor(userID string) activity.Actor {
	return activity.Actor{UserID: userID, IPAddress: "10.0.0.1", UserAgent: "test"}
}

func hours(h float64) *float64 { return &h }

func validInput() share.CreateInput {
	return share.CreateInput{
		AlertID:         "alert-1",
		SharedWithEmail: "guest@example.com",
		AccessType:      share.AccessReadOnly,
	}
}

func TestShareService_Create(t *testing.T) {
	tests := []struct {
		name     string
		actor    string
		mutate   func(in *share.CreateInput)
		wantCode string
	}{
		{name: "creator succeeds", actor: "creator"},
		{name: "admin succeeds on any alert", actor: "admin"},
		{name: "editor who is not creator is forbidden", actor: "editor", wantCode: errors.ErrCodeForbidden},
		{name: "read-only non-creator is forbidden", actor: "viewer", wantCode: errors.ErrCodeForbidden},
		{name: "unknown profile is forbidden", actor: "ghost", wantCode: errors.ErrCodeForbidden},
		{name: "anonymous", actor: "", wantCode: errors.ErrCodeUnauthorized},
		{
			name: "missing alert", actor: "admin",
			mutate:   func(in *share.CreateInput) { in.AlertID = "alert-404" },
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name: "empty alert id", actor: "admin",
			mutate:   func(in *share.CreateInput) { in.AlertID = "" },
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "empty email", actor: "admin",
			mutate:   func(in *share.CreateInput) { in.SharedWithEmail = " " },
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "malformed email", actor: "admin",
			mutate:   func(in *share.CreateInput) { in.SharedWithEmail = "not-an-email" },
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "bad access type", actor: "admin",
			mutate:   func(in *share.CreateInput) { in.AccessType = "owner" },
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "zero expiry", actor: "admin",
			mutate:   func(in *share.CreateInput) { in.ExpiresInHours = hours(0) },
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "negative expiry", actor: "admin",
			mutate:   func(in *share.CreateInput) { in.ExpiresInHours = hours(-2) },
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "expiry beyond ten years", actor: "admin",
			mutate:   func(in *share.CreateInput) { in.ExpiresInHours = hours(share.MaxExpiryHours + 1) },
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "fractional expiry", actor: "creator",
			mutate: func(in *share.CreateInput) { in.ExpiresInHours = hours(0.5) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newShareFixture(t)
			in := validInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			created, err := f.service.Create(context.Background(), actor(tt.actor), in)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
				assert.Zero(t, f.shares.Count(), "no share may be written")
				assert.Empty(t, f.activity.All())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1, f.shares.Count())
			assert.Len(t, created.Share.Token, 64)
			assert.Equal(t, "https://app.example.com/shared-alert/"+created.Share.Token, created.ShareURL)
			assert.True(t, created.Share.IsActive)
			assert.Equal(t, tt.actor, created.Share.SharedBy)
		})
	}
}

func TestShareService_Create_AnonymousRejectedBeforeLookup(t *testing.T) {
	f := newShareFixture(t)
	f.alerts.GetError = fmt.Errorf("store must not be reached")

	_, err := f.service.Create(context.Background(), activity.Actor{}, validInput())
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
}

func TestShareService_Create_ExpiryAndAudit(t *testing.T) {
	f := newShareFixture(t)
	in := validInput()
	in.ExpiresInHours = hours(24)

	created, err := f.service.Create(context.Background(), actor("creator"), in)
	require.NoError(t, err)

	require.NotNil(t, created.Share.ExpiresAt)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour).UTC(), *created.Share.ExpiresAt)

	entries := f.activity.All()
	require.Len(t, entries, 1)
	assert.Equal(t, activity.TypeShareAlert, entries[0].ActivityType)
	assert.Equal(t, "Shared alert alert-1 with guest@example.com", entries[0].Details)
	assert.Equal(t, "creator", entries[0].UserID)
	assert.Equal(t, "10.0.0.1", entries[0].IPAddress)
}

func TestShareService_Create_AuditFailureIsSwallowed(t *testing.T) {
	f := newShareFixture(t)
	f.activity.AppendError = stderrors.New("activity log unavailable")

	created, err := f.service.Create(context.Background(), actor("creator"), validInput())
	require.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, 1, f.shares.Count())
}

func TestShareService_Create_TokenFailure(t *testing.T) {
	f := newShareFixture(t)
	svc := f.service.(*ShareService)
	svc.newToken = func() (string, error) { return "", stderrors.New("entropy exhausted") }

	_, err := svc.Create(context.Background(), actor("creator"), validInput())
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
	assert.Zero(t, f.shares.Count())
}

func TestShareService_Access(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	in := validInput()
	in.AccessType = share.AccessEdit
	in.ExpiresInHours = hours(1)
	created, err := f.service.Create(ctx, actor("admin"), in)
	require.NoError(t, err)

	got, err := f.service.Access(ctx, created.Share.Token)
	require.NoError(t, err)
	assert.Equal(t, "alert-1", got.Alert.ID)
	assert.Equal(t, share.AccessEdit, got.AccessType)
	assert.Equal(t, created.Share.ID, got.Share.ID)

	t.Run("one second before expiry", func(t *testing.T) {
		f.clock.Add(time.Hour - time.Second)
		_, err := f.service.Access(ctx, created.Share.Token)
		assert.NoError(t, err)
	})

	t.Run("expired by one second", func(t *testing.T) {
		f.clock.Add(2 * time.Second)
		_, err := f.service.Access(ctx, created.Share.Token)
		assertShareUnavailable(t, err)
	})
}

func TestShareService_Access_AdminShareExpiresAfterAnHour(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	in := validInput()
	in.ExpiresInHours = hours(1)
	created, err := f.service.Create(ctx, actor("admin"), in)
	require.NoError(t, err)

	_, err = f.service.Access(ctx, created.Share.Token)
	require.NoError(t, err)

	f.clock.Add(61 * time.Minute)
	_, err = f.service.Access(ctx, created.Share.Token)
	assertShareUnavailable(t, err)
}

func TestShareService_Access_RevokedAndUnknownAreIndistinguishable(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, actor("creator"), validInput())
	require.NoError(t, err)
	require.NoError(t, f.service.Revoke(ctx, actor("creator"), created.Share.ID))

	_, revokedErr := f.service.Access(ctx, created.Share.Token)
	_, unknownErr := f.service.Access(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
	_, emptyErr := f.service.Access(ctx, "")

	assertShareUnavailable(t, revokedErr)
	assertShareUnavailable(t, unknownErr)
	assertShareUnavailable(t, emptyErr)
	assert.Equal(t, revokedErr.Error(), unknownErr.Error())
}

func TestShareService_Access_StoreFailure(t *testing.T) {
	f := newShareFixture(t)
	f.shares.GetError = errors.DatabaseError("Failed to get share", stderrors.New("connection reset"))

	_, err := f.service.Access(context.Background(), "anything")
	assert.True(t, errors.HasCode(err, errors.ErrCodeDatabase))
}

func TestShareService_Revoke(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		actor    string
		shareID  string
		wantCode string
	}{
		{name: "granter", actor: "creator"},
		{name: "admin", actor: "admin"},
		{name: "other editor", actor: "editor", wantCode: errors.ErrCodeForbidden},
		{name: "anonymous", actor: "", wantCode: errors.ErrCodeUnauthorized},
		{name: "unknown share", actor: "creator", shareID: "missing", wantCode: errors.ErrCodeNotFound},
		{name: "empty share id", actor: "creator", shareID: " ", wantCode: errors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newShareFixture(t)
			created, err := f.service.Create(ctx, actor("creator"), validInput())
			require.NoError(t, err)

			id := created.Share.ID
			if tt.shareID != "" {
				id = tt.shareID
			}

			err = f.service.Revoke(ctx, actor(tt.actor), id)
			if tt.wantCode != "" {
				assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
				assert.True(t, f.shares.Shares[created.Share.ID].IsActive)
				return
			}

			require.NoError(t, err)
			assert.False(t, f.shares.Shares[created.Share.ID].IsActive)

			entries := f.activity.All()
			require.Len(t, entries, 2)
			assert.Equal(t, activity.TypeRevokeShare, entries[1].ActivityType)
			assert.Equal(t, fmt.Sprintf("Revoked share %s for alert alert-1", created.Share.ID), entries[1].Details)
		})
	}
}

func TestShareService_Revoke_Twice(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, actor("creator"), validInput())
	require.NoError(t, err)

	require.NoError(t, f.service.Revoke(ctx, actor("creator"), created.Share.ID))
	require.NoError(t, f.service.Revoke(ctx, actor("creator"), created.Share.ID))
	assert.False(t, f.shares.Shares[created.Share.ID].IsActive)
}

func TestShareService_List(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()
	f.alerts.Alerts["alert-2"] = testutil.Alert("alert-2", "editor")

	_, err := f.service.Create(ctx, actor("creator"), validInput())
	require.NoError(t, err)
	in := validInput()
	in.AlertID = "alert-2"
	_, err = f.service.Create(ctx, actor("editor"), in)
	require.NoError(t, err)
	revoked, err := f.service.Create(ctx, actor("admin"), validInput())
	require.NoError(t, err)
	require.NoError(t, f.service.Revoke(ctx, actor("admin"), revoked.Share.ID))

	tests := []struct {
		name    string
		actor   string
		alertID string
		want    int
	}{
		{"admin sees every active share", "admin", "", 2},
		{"admin narrowed to one alert", "admin", "alert-2", 1},
		{"creator sees own grants", "creator", "", 1},
		{"editor filtered to another alert", "editor", "alert-1", 0},
		{"unknown profile sees own grants", "ghost", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := f.service.List(ctx, actor(tt.actor), tt.alertID)
			require.NoError(t, err)
			assert.Len(t, shares, tt.want)
			for _, s := range shares {
				assert.True(t, s.IsActive)
			}
		})
	}

	_, err = f.service.List(ctx, activity.Actor{}, "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
}

func TestGenerateShareToken(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		tok, err := GenerateShareToken()
		require.NoError(t, err)
		require.Len(t, tok, 64)
		for _, c := range tok {
			require.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'), "non-hex char %q", c)
		}
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token after %d draws", i)
		seen[tok] = struct{}{}
	}
}

func assertShareUnavailable(t *testing.T, err error) {
	t.Helper()
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, errors.ErrCodeShareUnavailable, appErr.Code)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, "Invalid or expired share link", appErr.Message)
}
