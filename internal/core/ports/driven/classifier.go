package driven

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// Classifier resolves the field classification of a new selection.
// It is the data contract of the field selection dialog: the result is
// either an accepted classification or a cancellation. Cancellation is not
// an error.
type Classifier interface {
	Classify(ctx context.Context, req domain.ClassificationRequest) (domain.ClassificationResult, error)
}
