package testutil

import (
	"database/sql"
	"encoding/json"
	"io/fs"
	"sort"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alertflow/alertflow/migrations"
)

const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// NewTestDB creates an in-memory SQLite database with the production schema
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// each connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	entries, err := fs.ReadDir(migrations.Files, ".")
	if err != nil {
		t.Fatalf("Failed to read migrations: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(migrations.Files, name)
		if err != nil {
			t.Fatalf("Failed to read migration %s: %v", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			t.Fatalf("Failed to apply migration %s: %v", name, err)
		}
	}

	t.Cleanup(func() { CleanupDB(db) })
	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}

// SeedProfile inserts a profile row
func SeedProfile(t *testing.T, db *sql.DB, userID, username, email, role string) {
	t.Helper()

	now := time.Now().UTC().Format(timeLayout)
	_, err := db.Exec(`
		INSERT INTO profiles (id, user_id, username, email, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"profile-"+userID, userID, username, email, role, now, now,
	)
	if err != nil {
		t.Fatalf("Failed to seed profile %s: %v", userID, err)
	}
}

// SeedAlert is the subset of alert columns tests care about
type SeedAlert struct {
	ID           string
	RuleName     string
	Description  string
	Severity     string
	Tags         []string
	IsActive     bool
	IsInProgress bool
	CreatedBy    string
	AssignedTo   string
	Category     string
	Source       string
	CreatedAt    time.Time
}

// InsertAlert inserts an alert row
func InsertAlert(t *testing.T, db *sql.DB, a SeedAlert) {
	t.Helper()

	if a.RuleName == "" {
		a.RuleName = "rule-" + a.ID
	}
	if a.Severity == "" {
		a.Severity = "Medium"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	tags, _ := json.Marshal(a.Tags)

	var assignedTo interface{}
	if a.AssignedTo != "" {
		assignedTo = a.AssignedTo
	}
	ts := a.CreatedAt.UTC().Format(timeLayout)

	_, err := db.Exec(`
		INSERT INTO alerts (id, rule_name, description, severity, tags, is_active, is_in_progress,
			created_by, assigned_to, category, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.RuleName, a.Description, a.Severity, string(tags), a.IsActive, a.IsInProgress,
		a.CreatedBy, assignedTo, a.Category, a.Source, ts, ts,
	)
	if err != nil {
		t.Fatalf("Failed to seed alert %s: %v", a.ID, err)
	}
}
