package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alertflow/alertflow/internal/domain/activity"
	"github.com/alertflow/alertflow/internal/domain/alert"
	"github.com/alertflow/alertflow/internal/domain/profile"
	"github.com/alertflow/alertflow/internal/domain/share"
	"github.com/alertflow/alertflow/internal/pkg/errors"
)

// MockAlertRepository is a mock implementation of alert.Repository
type MockAlertRepository struct {
	mu        sync.Mutex
	Alerts    map[string]*alert.Alert
	GetError  error
	ListError error
}

func NewMockAlertRepository(alerts ...*alert.Alert) *MockAlertRepository {
	m := &MockAlertRepository{Alerts: make(map[string]*alert.Alert)}
	for _, a := range alerts {
		m.Alerts[a.ID] = a
	}
	return m
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id string) (*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Alerts[id]
	if !ok {
		return nil, errors.NotFound("Alert")
	}
	return a, nil
}

func (m *MockAlertRepository) List(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	result := make([]*alert.Alert, 0)
	for _, a := range m.Alerts {
		if filter.Matches(a) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// MockShareRepository is a mock implementation of share.Repository
type MockShareRepository struct {
	mu          sync.Mutex
	Shares      map[string]*share.Share
	CreateError error
	GetError    error
	UpdateError error
	// Creates counts Create calls, including failed ones
	Creates int
}

func NewMockShareRepository() *MockShareRepository {
	return &MockShareRepository{Shares: make(map[string]*share.Share)}
}

func (m *MockShareRepository) Create(ctx context.Context, s *share.Share) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Creates++
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Shares {
		if existing.Token == s.Token {
			return errors.Conflict("Share token already exists")
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	cp := *s
	m.Shares[s.ID] = &cp
	return nil
}

func (m *MockShareRepository) GetByID(ctx context.Context, id string) (*share.Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	s, ok := m.Shares[id]
	if !ok {
		return nil, errors.NotFound("Share")
	}
	cp := *s
	return &cp, nil
}

func (m *MockShareRepository) GetActiveByToken(ctx context.Context, token string) (*share.Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, s := range m.Shares {
		if s.Token == token && s.IsActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Share")
}

func (m *MockShareRepository) Deactivate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	s, ok := m.Shares[id]
	if !ok {
		return errors.NotFound("Share")
	}
	s.IsActive = false
	return nil
}

func (m *MockShareRepository) ListActive(ctx context.Context, filter share.ListFilter) ([]*share.Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*share.Share, 0)
	for _, s := range m.Shares {
		if !s.IsActive {
			continue
		}
		if filter.AlertID != "" && s.AlertID != filter.AlertID {
			continue
		}
		if filter.SharedBy != "" && s.SharedBy != filter.SharedBy {
			continue
		}
		cp := *s
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// ByToken returns the stored share with the given token, or nil
func (m *MockShareRepository) ByToken(token string) *share.Share {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.Shares {
		if s.Token == token {
			return s
		}
	}
	return nil
}

// Count returns the number of stored shares
func (m *MockShareRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Shares)
}

// MockProfileRepository is a mock implementation of profile.Repository
type MockProfileRepository struct {
	mu       sync.Mutex
	Profiles map[string]*profile.Profile
	GetError error
}

func NewMockProfileRepository(profiles ...*profile.Profile) *MockProfileRepository {
	m := &MockProfileRepository{Profiles: make(map[string]*profile.Profile)}
	for _, p := range profiles {
		m.Profiles[p.UserID] = p
	}
	return m
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	p, ok := m.Profiles[userID]
	if !ok {
		return nil, errors.NotFound("Profile")
	}
	return p, nil
}

// MockActivityRepository is a mock implementation of activity.Repository
type MockActivityRepository struct {
	mu          sync.Mutex
	Entries     []*activity.Entry
	AppendError error
}

func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{}
}

func (m *MockActivityRepository) Append(ctx context.Context, e *activity.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendError != nil {
		return m.AppendError
	}
	cp := *e
	m.Entries = append(m.Entries, &cp)
	return nil
}

// All returns a snapshot of recorded entries
func (m *MockActivityRepository) All() []*activity.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*activity.Entry(nil), m.Entries...)
}

// Fixtures

// Profile builds a profile for userID with the given role
func Profile(userID string, role profile.Role) *profile.Profile {
	return &profile.Profile{
		ID:       "profile-" + userID,
		UserID:   userID,
		Username: userID,
		Email:    userID + "@example.com",
		Role:     role,
	}
}

// Alert builds an alert created by createdBy
func Alert(id, createdBy string) *alert.Alert {
	return &alert.Alert{
		ID:        id,
		RuleName:  "Rule " + id,
		Severity:  alert.SeverityMedium,
		Tags:      []string{},
		IsActive:  true,
		CreatedBy: createdBy,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
