package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// PageRenderer draws page previews including highlight marks.
type PageRenderer interface {
	// Render writes the preview of a zero-based page to w.
	Render(ctx context.Context, doc Document, page int, format domain.RenderFormat, w io.Writer) error
}

// PageInvalidator is told which pages changed their highlight set.
// Implementations drop any cached rendering of those pages.
type PageInvalidator interface {
	Invalidate(fileName string, pages ...int)
}
