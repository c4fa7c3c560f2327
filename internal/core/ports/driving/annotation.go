package driving

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// AnnotationService owns the open document and its in-memory annotation
// collection. All mutations are serialised by the implementation.
type AnnotationService interface {
	// Open loads a PDF, replaces the collection with the stored annotations
	// for its file name and re-draws their highlights.
	Open(ctx context.Context, path string) (*DocumentInfo, error)

	// Close releases the open document and clears the collection.
	Close() error

	// Info describes the open document.
	Info() (*DocumentInfo, error)

	// Begin extracts fragments for a finalised selection and parks them
	// until Resolve is called. Only one selection may be pending.
	Begin(ctx context.Context, sel domain.Selection) (*PendingSelection, error)

	// Resolve applies the classification outcome to a pending selection.
	// A cancelled result unwinds every fragment highlight.
	Resolve(ctx context.Context, pending *PendingSelection, result domain.ClassificationResult) ([]domain.Annotation, error)

	// Annotate runs Begin, asks the classifier once and resolves.
	Annotate(ctx context.Context, sel domain.Selection, classifier driven.Classifier) ([]domain.Annotation, error)

	// Annotations returns a copy of the collection in insertion order.
	Annotations() []domain.Annotation

	// RemoveAt removes the annotation at a collection index.
	RemoveAt(ctx context.Context, index int) (*RemoveResult, error)

	// RemoveLast removes the most recently added annotation.
	RemoveLast(ctx context.Context) (*RemoveResult, error)

	// RemoveByID removes the annotation with the given durable id.
	RemoveByID(ctx context.Context, id int64) (*RemoveResult, error)

	// Reload clears the collection and re-reads it from the store.
	Reload(ctx context.Context) error

	// LastLineItemNumber is the last line item number accepted this session.
	LastLineItemNumber() string
}

// DocumentInfo describes an open document.
type DocumentInfo struct {
	FileName    string
	Path        string
	PageCount   int
	Annotations int
	Metadata    domain.DocumentMetadata
}

// PendingSelection is a selection awaiting classification. Its fragments
// are highlighted but not yet in the collection or the store.
type PendingSelection struct {
	// Request is what a classifier is shown.
	Request domain.ClassificationRequest

	// Fragments are the extracted, unclassified annotations in page order.
	Fragments []domain.Annotation

	// GroupID is set when the selection spans more than one page.
	GroupID string
}

// RemoveOutcome reports which halves of a removal succeeded.
type RemoveOutcome int

const (
	// RemovedBoth means the highlight and the durable record are gone.
	RemovedBoth RemoveOutcome = iota

	// RemovedFromDocumentOnly means the highlight is gone but the store
	// still holds the record.
	RemovedFromDocumentOnly

	// RemovedFromStoreOnly means the record is gone but the highlight
	// could not be found on the page.
	RemovedFromStoreOnly
)

// String returns a short label for the outcome.
func (o RemoveOutcome) String() string {
	switch o {
	case RemovedBoth:
		return "removed"
	case RemovedFromDocumentOnly:
		return "removed from document only"
	case RemovedFromStoreOnly:
		return "removed from store only"
	default:
		return "unknown"
	}
}

// RemoveResult is returned for every removal that changed the collection.
type RemoveResult struct {
	Annotation domain.Annotation
	Outcome    RemoveOutcome

	// Err is the failure behind a partial outcome.
	Err error
}

// Partial reports whether one side of the removal failed.
func (r *RemoveResult) Partial() bool {
	return r.Outcome != RemovedBoth
}
