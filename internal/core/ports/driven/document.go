package driven

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// Document is an open PDF with a non-destructive highlight layer.
// Highlight marks are addressed by their ordinal among the marks of one page.
type Document interface {
	// FileName returns the base name used as the store key.
	FileName() string

	// Path returns the path the document was opened from.
	Path() string

	// PageCount returns the number of pages.
	PageCount() int

	// Metadata returns the title, author and subject of the document.
	Metadata() domain.DocumentMetadata

	// PageSize returns the dimensions of a zero-based page.
	PageSize(page int) (domain.PageSize, error)

	// TextInRect extracts the text inside a clip rectangle of a page.
	TextInRect(page int, clip domain.Rect) (string, error)

	// TextBoxes returns positioned text runs of a page.
	TextBoxes(page int) ([]domain.TextBox, error)

	// AddHighlight appends a highlight mark to a page.
	AddHighlight(page int, r domain.Rect) error

	// RemoveHighlight deletes the mark at ordinal among the page's marks.
	// Returns domain.ErrHighlightNotFound if the ordinal has no mark.
	RemoveHighlight(page, ordinal int) error

	// Highlights returns the marks of a page in ordinal order.
	Highlights(page int) []domain.Rect

	// Close releases the underlying file.
	Close() error
}

// DocumentOpener opens documents by path.
type DocumentOpener interface {
	// Open loads a PDF. The highlight layer starts empty.
	Open(ctx context.Context, path string) (Document, error)
}
