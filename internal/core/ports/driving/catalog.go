package driving

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// CatalogService answers read-only questions about stored annotations.
type CatalogService interface {
	// Files lists every file name with stored annotations.
	Files(ctx context.Context) ([]domain.FileSummary, error)

	// ByFile returns the stored annotations for a file in query order.
	ByFile(ctx context.Context, fileName string) ([]domain.Annotation, error)

	// Grouped returns the annotations for display, split into meta and
	// numbered line items with dates normalised.
	Grouped(ctx context.Context, fileName string) (*domain.GroupedAnnotations, error)
}
