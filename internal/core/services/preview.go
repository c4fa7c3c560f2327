package services

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// Ensure PreviewService implements the interface.
var _ driving.PreviewService = (*PreviewService)(nil)

// PreviewService renders pages of the session's open document.
type PreviewService struct {
	session  *AnnotationSession
	renderer driven.PageRenderer
}

// NewPreviewService creates a preview service.
func NewPreviewService(session *AnnotationSession, renderer driven.PageRenderer) *PreviewService {
	return &PreviewService{session: session, renderer: renderer}
}

// Render writes a zero-based page with its highlights to w.
func (s *PreviewService) Render(ctx context.Context, page int, format domain.RenderFormat, w io.Writer) error {
	return s.session.WithDocument(func(doc driven.Document) error {
		if page < 0 || page >= doc.PageCount() {
			return fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, page+1, doc.PageCount())
		}
		return s.renderer.Render(ctx, doc, page, format, w)
	})
}
