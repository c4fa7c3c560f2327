package driven

import (
	"io"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// Exporter serialises annotations in one export format.
type Exporter interface {
	// Format returns the format this exporter writes.
	Format() domain.ExportFormat

	// Write serialises rows in the given order.
	Write(w io.Writer, fileName string, rows []domain.Annotation) error
}
