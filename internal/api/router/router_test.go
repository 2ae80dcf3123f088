package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertflow/alertflow/internal/api/handlers"
	"github.com/alertflow/alertflow/internal/api/middleware"
	"github.com/alertflow/alertflow/internal/auth"
	"github.com/alertflow/alertflow/internal/config"
	"github.com/alertflow/alertflow/internal/domain/activity"
	"github.com/alertflow/alertflow/internal/domain/export"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/validator"
	"github.com/alertflow/alertflow/internal/repository/postgres"
	"github.com/alertflow/alertflow/internal/services"
	"github.com/alertflow/alertflow/internal/testutil"
)

const testSecret = "router-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sqlDB := testutil.NewTestDB(t)
	testutil.SeedProfile(t, sqlDB, "admin-1", "root", "root@example.com", "admin")
	testutil.SeedProfile(t, sqlDB, "editor-1", "ed", "ed@example.com", "editor")
	testutil.SeedProfile(t, sqlDB, "viewer-1", "vi", "vi@example.com", "read-only")
	testutil.InsertAlert(t, sqlDB, testutil.SeedAlert{
		ID: "alert-1", Severity: "High", IsActive: true, CreatedBy: "editor-1",
		Description: `He said, "drop table"`, Tags: []string{"db"},
	})

	db := postgres.Wrap(sqlDB, postgres.DriverSQLite)
	log := logger.Nop()

	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}, Environment: "test"},
		Auth:   config.AuthConfig{JWTSecret: testSecret},
		Share:  config.ShareConfig{FrontendURL: "https://app.example.com"},
	}

	alerts := postgres.NewAlertRepository(db)
	profiles := postgres.NewProfileRepository(db)
	recorder := services.NewActivityRecorder(postgres.NewActivityRepository(db), nil, log)

	h := &Handlers{
		Health: handlers.NewHealthHandler(db, "test", log),
		Share: handlers.NewShareHandler(services.NewShareService(services.ShareServiceConfig{
			Shares:      postgres.NewShareRepository(db),
			Alerts:      alerts,
			Profiles:    profiles,
			Recorder:    recorder,
			FrontendURL: cfg.Share.FrontendURL,
			Logger:      log,
		}), log, validator.New()),
		Export: handlers.NewExportHandler(services.NewExportService(alerts, profiles, recorder, nil, log), log),
	}

	srv := httptest.NewServer(New(cfg, log, h, middleware.NewRateLimiter(1000, 1000)))
	t.Cleanup(srv.Close)
	return srv
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.MintToken(userID, "", testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func send(t *testing.T, method, target, authz string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, target, &buf)
	require.NoError(t, err)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPreflight(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{ShareAlertPath, ExportAlertsPath, "/api/v1/share-alert", "/api/v1/export-alerts"} {
		t.Run(path, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, srv.URL+path+"?action=create", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", "https://anywhere.example")
			req.Header.Set("Access-Control-Request-Method", "POST")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, middleware.FunctionAllowHeaders, resp.Header.Get("Access-Control-Allow-Headers"))
		})
	}
}

type panickingExporter struct{}

func (panickingExporter) Export(context.Context, activity.Actor, export.Format, string) (*export.Document, error) {
	panic("exporter exploded")
}

func TestPanicKeepsCORSHeaders(t *testing.T) {
	log := logger.Nop()
	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}, Environment: "test"},
		Auth:   config.AuthConfig{JWTSecret: testSecret},
	}
	h := &Handlers{
		Health: handlers.NewHealthHandler(nil, "test", log),
		Share:  handlers.NewShareHandler(nil, log, validator.New()),
		Export: handlers.NewExportHandler(panickingExporter{}, log),
	}
	srv := httptest.NewServer(New(cfg, log, h, middleware.NewRateLimiter(1000, 1000)))
	t.Cleanup(srv.Close)

	resp := send(t, http.MethodGet, srv.URL+ExportAlertsPath+"?format=csv", bearer(t, "editor-1"), nil)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, middleware.FunctionAllowHeaders, resp.Header.Get("Access-Control-Allow-Headers"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, body["error"], "exploded")
}

func TestShareFlowAgainstSQLite(t *testing.T) {
	srv := newTestServer(t)

	// editor created alert-1, so the admin and the editor may both share it
	resp := send(t, http.MethodPost, srv.URL+ShareAlertPath+"?action=create", bearer(t, "viewer-1"),
		map[string]interface{}{"alert_id": "alert-1", "shared_with_email": "guest@example.com", "access_type": "read-only"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = send(t, http.MethodPost, srv.URL+ShareAlertPath+"?action=create", bearer(t, "editor-1"),
		map[string]interface{}{"alert_id": "alert-1", "shared_with_email": "guest@example.com", "access_type": "edit", "expires_in_hours": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		Success  bool   `json:"success"`
		ShareURL string `json:"share_url"`
		Share    struct {
			ID    string `json:"id"`
			Token string `json:"shared_link"`
		} `json:"share"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.True(t, created.Success)
	assert.Len(t, created.Share.Token, 64)

	resp = send(t, http.MethodGet, srv.URL+"/api/v1/share-alert?action=access&token="+created.Share.Token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var access struct {
		AccessType string `json:"access_type"`
		Alert      struct {
			ID               string `json:"id"`
			CreatedByProfile struct {
				Username string `json:"username"`
			} `json:"created_by_profile"`
		} `json:"alert"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&access))
	assert.Equal(t, "edit", access.AccessType)
	assert.Equal(t, "ed", access.Alert.CreatedByProfile.Username)

	resp = send(t, http.MethodPost, srv.URL+ShareAlertPath+"?action=revoke", bearer(t, "admin-1"),
		map[string]string{"share_id": created.Share.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, http.MethodGet, srv.URL+ShareAlertPath+"?action=access&token="+created.Share.Token, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportAgainstSQLite(t *testing.T) {
	srv := newTestServer(t)
	q := url.Values{"format": {"csv"}, "filters": {`{"severity":["High"],"date_to":"2999-01-01"}`}}

	resp := send(t, http.MethodGet, srv.URL+ExportAlertsPath+"?"+q.Encode(), bearer(t, "viewer-1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = send(t, http.MethodGet, srv.URL+ExportAlertsPath+"?"+q.Encode(), bearer(t, "editor-1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "alerts_export_")

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), `"He said, ""drop table"""`)
	assert.Contains(t, buf.String(), ",ed,")
}

func TestOperationalRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/healthz", "/readyz", "/metrics"} {
		resp := send(t, http.MethodGet, srv.URL+path, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp := send(t, http.MethodGet, srv.URL+"/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}
