package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "anon"})
	c.SetToken("tok")
	return c
}

func TestShareService_Create(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ShareAlertPath, r.URL.Path)
		assert.Equal(t, "create", r.URL.Query().Get("action"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var body CreateShareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a-1", body.AlertID)
		require.NotNil(t, body.ExpiresInHours)
		assert.Equal(t, 2.0, *body.ExpiresInHours)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"share":{"id":"s-1","alert_id":"a-1","shared_link":"abc","is_active":true},"share_url":"https://app/shared-alert/abc"}`))
	})

	hours := 2.0
	resp, err := c.Shares().Create(context.Background(), CreateShareRequest{
		AlertID:         "a-1",
		SharedWithEmail: "x@example.com",
		AccessType:      "read-only",
		ExpiresInHours:  &hours,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "abc", resp.Share.Token)
	assert.Equal(t, "https://app/shared-alert/abc", resp.ShareURL)
}

func TestShareService_ListAndRevoke(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "list":
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "a-1", r.URL.Query().Get("alert_id"))
			_, _ = w.Write([]byte(`{"shares":[{"id":"s-1"},{"id":"s-2"}]}`))
		case "revoke":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "s-1", body["share_id"])
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			t.Fatalf("unexpected action %q", r.URL.Query().Get("action"))
		}
	})

	shares, err := c.Shares().List(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Len(t, shares, 2)

	require.NoError(t, c.Shares().Revoke(context.Background(), "s-1"))
}

func TestShareService_AccessErrors(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Invalid or expired share link","code":"SHARE_UNAVAILABLE"}`))
	})

	_, err := c.Shares().Access(context.Background(), "nope")
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Invalid or expired share link", apiErr.Message)
	assert.Equal(t, "SHARE_UNAVAILABLE", apiErr.Code)
}

func TestAPIError_PlainBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	err := c.Ping(context.Background())
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestExportService_Download(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ExportAlertsPath, r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		var f map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("filters")), &f))
		assert.Equal(t, []interface{}{"High"}, f["severity"])
		assert.Equal(t, true, f["is_active"])

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="alerts_export_2024-01-02.json"`)
		w.Header().Set("X-Export-Count", "0")
		_, _ = w.Write([]byte("[]"))
	})

	active := true
	doc, err := c.Exports().Download(context.Background(), &ExportOptions{
		Format:  "json",
		Filters: &ExportFilters{Severity: []string{"High"}, IsActive: &active},
	})
	require.NoError(t, err)
	assert.Equal(t, "alerts_export_2024-01-02.json", doc.Filename)
	assert.Equal(t, "application/json", doc.ContentType)
	assert.Equal(t, 0, doc.Count)
	assert.Equal(t, "[]", string(doc.Content))
}

func TestClient_Health(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, []string{"/healthz", "/readyz"}, r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","database":"ok","version":"test"}`))
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)

	h, err = c.Ready(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Database)
}
