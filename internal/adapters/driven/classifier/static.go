package classifier

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// Ensure Static implements the interface.
var _ driven.Classifier = (*Static)(nil)

// Static accepts every selection with the same classification. An empty
// line item number falls back to the last one used.
type Static struct {
	c domain.Classification
}

// NewStatic validates c and returns a classifier answering with it.
func NewStatic(c domain.Classification) (*Static, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Static{c: c}, nil
}

// Classify returns the fixed classification.
func (s *Static) Classify(_ context.Context, req domain.ClassificationRequest) (domain.ClassificationResult, error) {
	c := s.c
	if c.Type == domain.AnnotationLineItem && c.LineItemNumber == "" {
		c.LineItemNumber = req.LastLineItemNumber
	}
	return domain.Accept(c), nil
}
