// Package xlsx writes annotations to an Excel workbook using excelize.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/pdfmark/internal/adapters/driven/export"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// SheetName is the worksheet holding the rows.
const SheetName = "Annotations"

// Exporter writes a single-sheet workbook with a header row.
type Exporter struct{}

// New creates an XLSX exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns domain.ExportXLSX.
func (e *Exporter) Format() domain.ExportFormat {
	return domain.ExportXLSX
}

// Write serialises rows in the given order.
func (e *Exporter) Write(w io.Writer, _ string, rows []domain.Annotation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for col, h := range domain.ExportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i := range rows {
		row := i + 2
		for col, v := range cellValues(rows[i]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("xlsx row %d: %w", i+1, err)
			}
		}
	}

	// Text and field columns are the wide ones.
	_ = f.SetColWidth(SheetName, "E", "E", 24)
	_ = f.SetColWidth(SheetName, "K", "K", 48)
	_ = f.SetColWidth(SheetName, "P", "P", 38)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// cellValues converts the exported strings to typed cells. Absent
// optionals stay blank.
func cellValues(a domain.Annotation) []any {
	cells := export.Cells(a)
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	if a.ID != nil {
		values[0] = *a.ID
	}
	values[2] = a.Page + 1
	values[6], values[7], values[8], values[9] = a.Rect.X0, a.Rect.Y0, a.Rect.X1, a.Rect.Y1
	if a.Multipage != nil {
		values[13] = a.Multipage.Position
	}
	return values
}
