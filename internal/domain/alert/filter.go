package alert

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Filter selects alerts for export. Every set field narrows the result;
// unset fields impose no constraint.
type Filter struct {
	Severity     []Severity
	IsActive     *bool
	IsInProgress *bool
	AssignedTo   *string
	CreatedBy    *string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// filterJSON is the wire form of Filter. Unknown keys are rejected.
type filterJSON struct {
	Severity     []string `json:"severity"`
	IsActive     *bool    `json:"is_active"`
	IsInProgress *bool    `json:"is_in_progress"`
	AssignedTo   *string  `json:"assigned_to"`
	CreatedBy    *string  `json:"created_by"`
	DateFrom     *string  `json:"date_from"`
	DateTo       *string  `json:"date_to"`
}

const dateOnly = "2006-01-02"

// ParseFilter decodes the JSON filter document used by the export endpoint.
// An empty document yields the zero Filter.
func ParseFilter(raw string) (Filter, error) {
	var f Filter
	if strings.TrimSpace(raw) == "" {
		return f, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var in filterJSON
	if err := dec.Decode(&in); err != nil {
		return f, fmt.Errorf("invalid filters: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return f, fmt.Errorf("invalid filters: trailing data after filter object")
	}

	for _, s := range in.Severity {
		sev, err := ParseSeverity(s)
		if err != nil {
			return f, err
		}
		f.Severity = append(f.Severity, sev)
	}

	f.IsActive = in.IsActive
	f.IsInProgress = in.IsInProgress
	f.AssignedTo = nonEmpty(in.AssignedTo)
	f.CreatedBy = nonEmpty(in.CreatedBy)

	if in.DateFrom != nil && *in.DateFrom != "" {
		t, _, err := parseDate(*in.DateFrom)
		if err != nil {
			return f, fmt.Errorf("invalid date_from: %w", err)
		}
		f.DateFrom = &t
	}
	if in.DateTo != nil && *in.DateTo != "" {
		t, dayOnly, err := parseDate(*in.DateTo)
		if err != nil {
			return f, fmt.Errorf("invalid date_to: %w", err)
		}
		if dayOnly {
			// a bare date includes the whole day
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.DateTo = &t
	}

	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, fmt.Errorf("invalid filters: date_from is after date_to")
	}

	return f, nil
}

// IsEmpty reports whether the filter matches every alert
func (f Filter) IsEmpty() bool {
	return len(f.Severity) == 0 && f.IsActive == nil && f.IsInProgress == nil &&
		f.AssignedTo == nil && f.CreatedBy == nil && f.DateFrom == nil && f.DateTo == nil
}

// Matches evaluates the filter in memory
func (f Filter) Matches(a *Alert) bool {
	if len(f.Severity) > 0 {
		found := false
		for _, s := range f.Severity {
			if a.Severity == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.IsActive != nil && a.IsActive != *f.IsActive {
		return false
	}
	if f.IsInProgress != nil && a.IsInProgress != *f.IsInProgress {
		return false
	}
	if f.AssignedTo != nil && (a.AssignedTo == nil || *a.AssignedTo != *f.AssignedTo) {
		return false
	}
	if f.CreatedBy != nil && a.CreatedBy != *f.CreatedBy {
		return false
	}
	if f.DateFrom != nil && a.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && a.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	return t.UTC(), true, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
