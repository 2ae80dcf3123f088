package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alertflow/alertflow/pkg/client"
)

func newExportCmd() *cobra.Command {
	var (
		format     string
		severity   []string
		assignedTo string
		createdBy  string
		dateFrom   string
		dateTo     string
		active     bool
		inProgress bool
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export alerts as csv or json",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &client.ExportFilters{Severity: severity}
			if cmd.Flags().Changed("active") {
				f.IsActive = &active
			}
			if cmd.Flags().Changed("in-progress") {
				f.IsInProgress = &inProgress
			}
			if assignedTo != "" {
				f.AssignedTo = &assignedTo
			}
			if createdBy != "" {
				f.CreatedBy = &createdBy
			}
			var err error
			if f.DateFrom, err = parseDateFlag(dateFrom, false); err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			if f.DateTo, err = parseDateFlag(dateTo, true); err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			doc, err := apiClient.Exports().Download(context.Background(), &client.ExportOptions{
				Format:  format,
				Filters: f,
			})
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			switch outPath {
			case "-":
				_, err := stdout.Write(doc.Content)
				return err
			case "":
				outPath = localFilename(doc.Filename)
			}
			if err := os.WriteFile(outPath, doc.Content, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			fmt.Fprintf(stdout, "Exported %d alerts to %s\n", doc.Count, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv, json")
	cmd.Flags().StringSliceVar(&severity, "severity", nil, "severities to include (Low, Medium, High, Critical)")
	cmd.Flags().BoolVar(&active, "active", false, "only active (or with =false, inactive) alerts")
	cmd.Flags().BoolVar(&inProgress, "in-progress", false, "only in-progress (or with =false, idle) alerts")
	cmd.Flags().StringVar(&assignedTo, "assigned-to", "", "assignee user id")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "creator user id")
	cmd.Flags().StringVar(&dateFrom, "from", "", "earliest creation date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&dateTo, "to", "", "latest creation date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file, - for stdout (default server filename)")

	return cmd
}

// localFilename keeps only the last element of a server-supplied name so the
// export always lands in the working directory
func localFilename(name string) string {
	base := filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	switch base {
	case ".", "..", string(filepath.Separator), "":
		return "alerts_export"
	}
	return base
}

// parseDateFlag accepts RFC 3339 or a bare date. A bare end date covers the
// whole day.
func parseDateFlag(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
