package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, f Filter)
	}{
		{
			name:  "empty document",
			raw:   "",
			check: func(t *testing.T, f Filter) { assert.True(t, f.IsEmpty()) },
		},
		{
			name:  "empty object",
			raw:   "{}",
			check: func(t *testing.T, f Filter) { assert.True(t, f.IsEmpty()) },
		},
		{
			name: "all fields",
			raw: `{"severity":["high","Critical"],"is_active":true,"is_in_progress":false,` +
				`"assigned_to":"u-2","created_by":"u-1","date_from":"2024-01-01T00:00:00Z","date_to":"2024-02-01"}`,
			check: func(t *testing.T, f Filter) {
				assert.Equal(t, []Severity{SeverityHigh, SeverityCritical}, f.Severity)
				require.NotNil(t, f.IsActive)
				assert.True(t, *f.IsActive)
				require.NotNil(t, f.IsInProgress)
				assert.False(t, *f.IsInProgress)
				assert.Equal(t, "u-2", *f.AssignedTo)
				assert.Equal(t, "u-1", *f.CreatedBy)
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
				assert.Equal(t, time.Date(2024, 2, 1, 23, 59, 59, 999999999, time.UTC), *f.DateTo)
			},
		},
		{
			name:  "blank assignee ignored",
			raw:   `{"assigned_to":"  "}`,
			check: func(t *testing.T, f Filter) { assert.Nil(t, f.AssignedTo) },
		},
		{name: "unknown key", raw: `{"severity":["Low"],"status":"open"}`, wantErr: true},
		{name: "bad severity", raw: `{"severity":["Urgent"]}`, wantErr: true},
		{name: "severity not a list", raw: `{"severity":"High"}`, wantErr: true},
		{name: "bad date", raw: `{"date_from":"yesterday"}`, wantErr: true},
		{name: "inverted range", raw: `{"date_from":"2024-03-01","date_to":"2024-02-01"}`, wantErr: true},
		{name: "not json", raw: `severity=High`, wantErr: true},
		{name: "trailing data", raw: `{} {}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	assignee := "u-2"
	created := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	a := &Alert{
		Severity:   SeverityHigh,
		IsActive:   true,
		CreatedBy:  "u-1",
		AssignedTo: &assignee,
		CreatedAt:  created,
	}

	yes, no := true, false
	other := "u-9"
	before := created.Add(-time.Hour)
	after := created.Add(time.Hour)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"severity hit", Filter{Severity: []Severity{SeverityLow, SeverityHigh}}, true},
		{"severity miss", Filter{Severity: []Severity{SeverityLow}}, false},
		{"active", Filter{IsActive: &yes}, true},
		{"inactive", Filter{IsActive: &no}, false},
		{"in progress", Filter{IsInProgress: &yes}, false},
		{"assignee hit", Filter{AssignedTo: &assignee}, true},
		{"assignee miss", Filter{AssignedTo: &other}, false},
		{"creator miss", Filter{CreatedBy: &other}, false},
		{"range hit", Filter{DateFrom: &before, DateTo: &after}, true},
		{"from miss", Filter{DateFrom: &after}, false},
		{"to miss", Filter{DateTo: &before}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(a))
		})
	}
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("critical")
	require.NoError(t, err)
	assert.Equal(t, SeverityCritical, s)

	_, err = ParseSeverity("info")
	assert.Error(t, err)

	assert.True(t, SeverityMedium.Valid())
	assert.False(t, Severity("medium").Valid())
}

func TestPersonRef_DisplayName(t *testing.T) {
	var nilRef *PersonRef
	assert.Equal(t, "", nilRef.DisplayName())
	assert.Equal(t, "alice", (&PersonRef{Username: "alice", Email: "a@example.com"}).DisplayName())
	assert.Equal(t, "a@example.com", (&PersonRef{Email: "a@example.com"}).DisplayName())
}
