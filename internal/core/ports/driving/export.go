package driving

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// ExportService writes a file's annotations to a tabular document.
type ExportService interface {
	// Export writes the annotations of fileName to dest. An empty dest uses
	// DefaultDestination. No file is created when nothing is stored.
	Export(ctx context.Context, fileName, dest string, format domain.ExportFormat) (*domain.ExportResult, error)

	// DefaultDestination returns the path used when no destination is given.
	DefaultDestination(fileName string, format domain.ExportFormat) string

	// Formats lists the registered export formats.
	Formats() []domain.ExportFormat
}
