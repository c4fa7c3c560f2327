// Package csv writes annotations as comma separated values.
package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"

	"github.com/custodia-labs/pdfmark/internal/adapters/driven/export"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter writes a header row followed by one row per annotation.
type Exporter struct{}

// New creates a CSV exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns domain.ExportCSV.
func (e *Exporter) Format() domain.ExportFormat {
	return domain.ExportCSV
}

// Write serialises rows in the given order.
func (e *Exporter) Write(w io.Writer, _ string, rows []domain.Annotation) error {
	cw := stdcsv.NewWriter(w)
	if err := cw.Write(domain.ExportColumns); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for i := range rows {
		if err := cw.Write(export.Cells(rows[i])); err != nil {
			return fmt.Errorf("csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
