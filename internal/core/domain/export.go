package domain

import (
	"fmt"
	"strings"
)

// ExportFormat selects the tabular serialisation of an export.
type ExportFormat string

// Available export formats.
const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportYAML ExportFormat = "yaml"
)

// ParseExportFormat parses a format name, case-insensitively.
// An empty name selects CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return ExportCSV, nil
	case ExportCSV, ExportXLSX, ExportYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: export format %q", ErrInvalidInput, s)
	}
}

// Extension returns the file extension without a dot.
func (f ExportFormat) Extension() string {
	return string(f)
}

// String returns the string representation.
func (f ExportFormat) String() string {
	return string(f)
}

// ExportOutcome distinguishes a written export from an empty one.
type ExportOutcome int

const (
	// ExportWritten means at least one row was written to the destination.
	ExportWritten ExportOutcome = iota

	// ExportEmpty means the file has no annotations and nothing was written.
	ExportEmpty
)

// String returns the string representation.
func (o ExportOutcome) String() string {
	switch o {
	case ExportWritten:
		return "written"
	case ExportEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// ExportResult reports what an export produced.
type ExportResult struct {
	Outcome ExportOutcome
	Path    string
	Rows    int
	Format  ExportFormat
}

// ExportColumns is the fixed column order of tabular exports.
var ExportColumns = []string{
	"id",
	"file_name",
	"page",
	"type",
	"field",
	"line_item_number",
	"rect_x0",
	"rect_y0",
	"rect_x1",
	"rect_y1",
	"text",
	"standardized_date",
	"is_multipage",
	"multipage_position",
	"multipage_type",
	"multipage_group",
}
