package driven

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// AnnotationStore persists annotation records keyed by document base name.
// Returned slices are snapshots; callers own staleness.
type AnnotationStore interface {
	// Insert persists one annotation and returns its new unique ID.
	// The record is written completely or not at all.
	Insert(ctx context.Context, fileName string, a *domain.Annotation) (int64, error)

	// QueryByFile returns all annotations for a file ordered by
	// (group_id, multipage_position, id). Matching uses the base name only.
	QueryByFile(ctx context.Context, fileName string) ([]domain.Annotation, error)

	// DeleteByID removes one annotation.
	// Returns domain.ErrNotFound if no annotation has the ID.
	DeleteByID(ctx context.Context, id int64) error

	// ListForExport returns all annotations for a file ordered by
	// (field_name, line_item_number, group_id, multipage_position, id).
	ListForExport(ctx context.Context, fileName string) ([]domain.Annotation, error)

	// ListFiles summarises every file that has at least one annotation.
	ListFiles(ctx context.Context) ([]domain.FileSummary, error)
}
