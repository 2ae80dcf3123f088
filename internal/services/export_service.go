package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/alertflow/alertflow/internal/domain/activity"
	"github.com/alertflow/alertflow/internal/domain/alert"
	"github.com/alertflow/alertflow/internal/domain/export"
	"github.com/alertflow/alertflow/internal/domain/profile"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/metrics"
)

// CSVHeader is the first row of every CSV export
var CSVHeader = []string{
	"ID", "Rule Name", "Short Description", "Description", "Severity", "Status",
	"In Progress", "Created By", "Assigned To", "Created At", "Updated At",
	"Tags", "Category", "Source",
}

// ExportService implements export.Service
type ExportService struct {
	alerts   alert.Repository
	profiles profile.Repository
	recorder activity.Recorder
	clock    clock.Clock
	logger   *logger.Logger
}

// NewExportService creates a new export service
func NewExportService(alerts alert.Repository, profiles profile.Repository, recorder activity.Recorder, clk clock.Clock, log *logger.Logger) export.Service {
	if clk == nil {
		clk = clock.New()
	}
	return &ExportService{
		alerts:   alerts,
		profiles: profiles,
		recorder: recorder,
		clock:    clk,
		logger:   log,
	}
}

// Export serializes every alert matching rawFilters
func (s *ExportService) Export(ctx context.Context, actor activity.Actor, format export.Format, rawFilters string) (*export.Document, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized("Authentication required")
	}

	p, err := s.profiles.GetByUserID(ctx, actor.UserID)
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		return nil, errors.Forbidden("Profile not found")
	}
	if err != nil {
		return nil, err
	}
	if !p.Role.CanExport() {
		return nil, errors.Forbidden("Insufficient permissions to export alerts")
	}

	format, err = export.ParseFormat(string(format))
	if err != nil {
		return nil, errors.ValidationError("Invalid format. Use csv or json", nil)
	}

	filter, err := alert.ParseFilter(rawFilters)
	if err != nil {
		return nil, errors.ValidationError(err.Error(), nil)
	}

	alerts, err := s.alerts.List(ctx, filter)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to fetch alerts for export")
		return nil, err
	}

	var content []byte
	switch format {
	case export.FormatJSON:
		content, err = EncodeJSON(alerts)
	default:
		content, err = EncodeCSV(alerts)
	}
	if err != nil {
		return nil, errors.Internal("Failed to encode export", err)
	}

	doc := &export.Document{
		Content:     content,
		ContentType: format.ContentType(),
		Filename:    fmt.Sprintf("alerts_export_%s.%s", s.clock.Now().UTC().Format("2006-01-02"), format),
		Format:      format,
		Count:       len(alerts),
	}

	metrics.RecordExport(string(format), doc.Count)
	s.recorder.Record(ctx, actor, activity.TypeExportAlerts,
		fmt.Sprintf("Exported %d alerts in %s format", doc.Count, format))

	s.logger.WithFields(map[string]interface{}{
		"user_id": actor.UserID,
		"format":  format,
		"count":   doc.Count,
	}).Info("Alerts exported")

	return doc, nil
}

// EncodeJSON renders alerts as a two-space indented array
func EncodeJSON(alerts []*alert.Alert) ([]byte, error) {
	if alerts == nil {
		alerts = []*alert.Alert{}
	}
	return json.MarshalIndent(alerts, "", "  ")
}

// EncodeCSV renders alerts as CSV with a header row. Fields are quoted only
// when they contain a separator, quote or line break.
func EncodeCSV(alerts []*alert.Alert) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, a := range alerts {
		if err := w.Write(csvRecord(a)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRecord(a *alert.Alert) []string {
	return []string{
		a.ID,
		a.RuleName,
		a.ShortDescription,
		a.Description,
		string(a.Severity),
		yesNo(a.IsActive, "Active", "Inactive"),
		yesNo(a.IsInProgress, "Yes", "No"),
		a.CreatedByProfile.DisplayName(),
		a.AssignedToProfile.DisplayName(),
		a.CreatedAt.UTC().Format(time.RFC3339),
		a.UpdatedAt.UTC().Format(time.RFC3339),
		strings.Join(a.Tags, ", "),
		a.Category,
		a.Source,
	}
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
