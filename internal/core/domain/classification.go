package domain

import "fmt"

// Classification is the field assignment chosen for a new annotation.
type Classification struct {
	// Type is meta or line_item.
	Type AnnotationType

	// Field is drawn from the enumeration matching Type.
	Field string

	// LineItemNumber identifies the row. Always empty for meta.
	LineItemNumber string
}

// Validate checks the classification against the field enumerations.
func (c Classification) Validate() error {
	switch c.Type {
	case AnnotationMeta:
		if !IsMetaField(c.Field) {
			return fmt.Errorf("%w: %q is not a meta field", ErrUnknownField, c.Field)
		}
		if c.LineItemNumber != "" {
			return fmt.Errorf("%w: meta annotations have no line item number", ErrInvalidInput)
		}
	case AnnotationLineItem:
		if !IsLineItemField(c.Field) {
			return fmt.Errorf("%w: %q is not a line item field", ErrUnknownField, c.Field)
		}
	default:
		return fmt.Errorf("%w: annotation type %q", ErrInvalidInput, c.Type)
	}
	return nil
}

// Normalised returns a copy with the line item number cleared for meta
// annotations.
func (c Classification) Normalised() Classification {
	if c.Type == AnnotationMeta {
		c.LineItemNumber = ""
	}
	return c
}

// ClassificationRequest is what a classifier is shown for one selection.
type ClassificationRequest struct {
	// FileName is the document being annotated.
	FileName string

	// Page is the page of the start fragment.
	Page int

	// Text is the complete selected text (all fragments joined).
	Text string

	// Fragments is the number of pages the selection spans.
	Fragments int

	// LastLineItemNumber pre-fills the line item number in line_item mode.
	LastLineItemNumber string
}

// ClassificationResult is either an accepted classification or a cancellation.
type ClassificationResult struct {
	Accepted       bool
	Classification Classification
}

// Accept returns an accepted result.
func Accept(c Classification) ClassificationResult {
	return ClassificationResult{Accepted: true, Classification: c}
}

// Cancel returns a cancellation result.
func Cancel() ClassificationResult {
	return ClassificationResult{}
}
