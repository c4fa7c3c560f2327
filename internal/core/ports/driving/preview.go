package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// PreviewService renders pages of the open document with their highlights.
type PreviewService interface {
	// Render writes page (0-based) of the open document to w.
	Render(ctx context.Context, page int, format domain.RenderFormat, w io.Writer) error
}
