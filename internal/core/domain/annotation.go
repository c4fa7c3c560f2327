package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// AnnotationType classifies what an annotation captures.
type AnnotationType string

// Available annotation types.
const (
	// AnnotationMeta is a document-level attribute.
	AnnotationMeta AnnotationType = "meta"

	// AnnotationLineItem belongs to a row identified by a line item number.
	AnnotationLineItem AnnotationType = "line_item"

	// AnnotationSelection is the legacy value of an unclassified annotation.
	AnnotationSelection AnnotationType = "selection"
)

// IsValid returns true if the annotation type is recognised.
func (t AnnotationType) IsValid() bool {
	switch t {
	case AnnotationMeta, AnnotationLineItem, AnnotationSelection:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t AnnotationType) String() string {
	return string(t)
}

// MultipageType is the role of a fragment within a multi-page group.
type MultipageType string

// Fragment roles.
const (
	MultipageStart  MultipageType = "start"
	MultipageMiddle MultipageType = "middle"
	MultipageEnd    MultipageType = "end"
)

// IsValid returns true if the fragment role is recognised.
func (t MultipageType) IsValid() bool {
	switch t {
	case MultipageStart, MultipageMiddle, MultipageEnd:
		return true
	default:
		return false
	}
}

// Rect is a bounding box in page space.
// The origin is the top-left corner of the page and y grows downwards.
type Rect struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// NewRect builds a rect from two corners in any order.
func NewRect(ax, ay, bx, by float64) Rect {
	if ax > bx {
		ax, bx = bx, ax
	}
	if ay > by {
		ay, by = by, ay
	}
	return Rect{X0: ax, Y0: ay, X1: bx, Y1: by}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// IsValid reports whether x0<x1 and y0<y1.
func (r Rect) IsValid() bool {
	return r.X0 < r.X1 && r.Y0 < r.Y1
}

// Contains reports whether the point lies inside the rect, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// String returns the rect as "x0,y0,x1,y1".
func (r Rect) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.X0, r.Y0, r.X1, r.Y1)
}

// Multipage describes one fragment of a selection that spanned several pages.
type Multipage struct {
	// Position is the 1-based ordinal of the fragment within its group.
	Position int

	// Type is start, middle or end.
	Type MultipageType

	// GroupID is shared by every fragment of one selection.
	GroupID string
}

// Annotation is a semantically tagged highlight region on a PDF page.
type Annotation struct {
	// ID is assigned by the store. Nil until persisted.
	ID *int64

	// FileName is the base name of the source document.
	FileName string

	// Page is the zero-based page index.
	Page int

	// Rect is the highlighted region.
	Rect Rect

	// Text is the extracted (possibly cleaned) text.
	Text string

	// Type is meta, line_item or the legacy selection value.
	Type AnnotationType

	// Field is the semantic field captured by this annotation.
	Field string

	// LineItemNumber groups line item annotations of the same row.
	// Empty for meta annotations.
	LineItemNumber string

	// StandardizedDate is the canonical YYYY-MM-DD value for date fields.
	// Nil when the field is not date-bearing or normalisation failed.
	StandardizedDate *string

	// Multipage is set when the annotation is a fragment of a multi-page group.
	Multipage *Multipage

	// CreatedAt is when the store recorded the annotation.
	CreatedAt time.Time
}

// IsMultipage reports whether the annotation is a fragment of a multi-page group.
func (a *Annotation) IsMultipage() bool {
	return a.Multipage != nil
}

// GroupID returns the multi-page group token, or empty for single-page annotations.
func (a *Annotation) GroupID() string {
	if a.Multipage == nil {
		return ""
	}
	return a.Multipage.GroupID
}

// IsPersisted reports whether the store has assigned an ID.
func (a *Annotation) IsPersisted() bool {
	return a.ID != nil
}

// Classification returns the field classification carried by the annotation.
func (a *Annotation) Classification() Classification {
	return Classification{
		Type:           a.Type,
		Field:          a.Field,
		LineItemNumber: a.LineItemNumber,
	}
}

// Apply copies a classification onto the annotation.
func (a *Annotation) Apply(c Classification) {
	a.Type = c.Type
	a.Field = c.Field
	a.LineItemNumber = c.LineItemNumber
}

// IsClassified reports whether the annotation has a field assigned.
func (a *Annotation) IsClassified() bool {
	return a.Field != "" && a.Type != AnnotationSelection && a.Type != ""
}

// BaseName reduces a path to the file name used as the store key.
func BaseName(path string) string {
	return filepath.Base(path)
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
