package export

import (
	"context"
	"fmt"

	"github.com/alertflow/alertflow/internal/domain/activity"
)

// Format is an export serialization
type Format string

// Supported formats
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts exactly csv or json; empty means csv
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Document is a finished export
type Document struct {
	Content     []byte
	ContentType string
	Filename    string
	Format      Format
	Count       int
}

// Service defines alert export
type Service interface {
	// Export serializes every alert matching the JSON filter document
	// rawFilters. Editors and admins only; the role is checked before the
	// format and filters are read.
	Export(ctx context.Context, actor activity.Actor, format Format, rawFilters string) (*Document, error)
}
