package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// Reconciler turns a finalised selection into annotation fragments and
// stamps a classification onto them. It holds no session state.
type Reconciler struct {
	ids   driven.GroupIDGenerator
	dates driven.DateNormaliser
	log   *logger.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(ids driven.GroupIDGenerator, dates driven.DateNormaliser, log *logger.Logger) *Reconciler {
	return &Reconciler{ids: ids, dates: dates, log: log}
}

// Fragments extracts one unclassified annotation per page covered by sel.
//
// A single-page selection yields one annotation for its rectangle. A
// multi-page selection yields a start fragment from the start point to the
// page's bottom-right corner, whole-page middle fragments and an end
// fragment from the page origin to the end point, all sharing a new group
// id with positions 1..N in page order. A start or end fragment that
// clamps to an empty rectangle fails with domain.ErrInvalidInput.
func (r *Reconciler) Fragments(doc driven.Document, sel domain.Selection) ([]domain.Annotation, error) {
	fileName := doc.FileName()

	if !sel.IsMultipage() {
		text, err := doc.TextInRect(sel.StartPage, sel.StartRect)
		if err != nil {
			return nil, fmt.Errorf("extracting text on page %d: %w", sel.StartPage+1, err)
		}
		return []domain.Annotation{{
			FileName: fileName,
			Page:     sel.StartPage,
			Rect:     sel.StartRect,
			Text:     text,
			Type:     domain.AnnotationSelection,
		}}, nil
	}

	groupID := r.ids.NewGroupID()
	span := sel.Span()
	fragments := make([]domain.Annotation, 0, span)

	for i := 0; i < span; i++ {
		page := sel.StartPage + i
		size, err := doc.PageSize(page)
		if err != nil {
			return nil, fmt.Errorf("reading size of page %d: %w", page+1, err)
		}

		var (
			rect domain.Rect
			kind domain.MultipageType
		)
		switch i {
		case 0:
			kind = domain.MultipageStart
			rect = clampRect(domain.Rect{
				X0: sel.StartRect.X0, Y0: sel.StartRect.Y0,
				X1: size.Width, Y1: size.Height,
			}, size)
		case span - 1:
			kind = domain.MultipageEnd
			rect = clampRect(domain.Rect{X1: sel.EndRect.X1, Y1: sel.EndRect.Y1}, size)
		default:
			kind = domain.MultipageMiddle
			rect = size.Bounds()
		}
		if !rect.IsValid() {
			return nil, fmt.Errorf("%w: %s fragment on page %d is empty (%s)",
				domain.ErrInvalidInput, kind, page+1, rect)
		}

		text, err := doc.TextInRect(page, rect)
		if err != nil {
			return nil, fmt.Errorf("extracting text on page %d: %w", page+1, err)
		}

		fragments = append(fragments, domain.Annotation{
			FileName: fileName,
			Page:     page,
			Rect:     rect,
			Text:     text,
			Type:     domain.AnnotationSelection,
			Multipage: &domain.Multipage{
				Position: i + 1,
				Type:     kind,
				GroupID:  groupID,
			},
		})
	}

	r.log.Debug("selection %s page %d..%d split into %d fragments (group %s)",
		fileName, sel.StartPage+1, sel.EndPage+1, len(fragments), groupID)
	return fragments, nil
}

// CompleteText joins the fragment texts with newlines.
func CompleteText(fragments []domain.Annotation) string {
	texts := make([]string, len(fragments))
	for i := range fragments {
		texts[i] = fragments[i].Text
	}
	return strings.Join(texts, "\n")
}

// Apply stamps c onto copies of fragments. For date fields each fragment's
// text is cleaned and the standardized date is computed once from the
// complete text and shared by every fragment. A date that cannot be parsed
// is logged and left unset.
func (r *Reconciler) Apply(fragments []domain.Annotation, c domain.Classification) []domain.Annotation {
	c = c.Normalised()
	out := make([]domain.Annotation, len(fragments))
	copy(out, fragments)

	var stdDate *string
	if domain.IsDateField(c.Field) {
		complete := CompleteText(fragments)
		normalised, err := r.dates.Normalise(complete)
		if err != nil {
			r.log.Warn("could not standardize %s %q: %v", c.Field, r.dates.Clean(complete), err)
		} else {
			stdDate = &normalised
		}
	}

	for i := range out {
		out[i].Apply(c)
		if domain.IsDateField(c.Field) {
			out[i].Text = r.dates.Clean(out[i].Text)
			if stdDate != nil {
				out[i].StandardizedDate = domain.StringPtr(*stdDate)
			}
		}
	}
	return out
}

// Propagate gives every unclassified member of a multi-page group the
// classification of a classified member of the same group. Annotations
// outside groups are returned unchanged.
func Propagate(annotations []domain.Annotation) []domain.Annotation {
	byGroup := make(map[string]domain.Annotation)
	for i := range annotations {
		a := annotations[i]
		if a.GroupID() == "" || !a.IsClassified() {
			continue
		}
		if _, ok := byGroup[a.GroupID()]; !ok {
			byGroup[a.GroupID()] = a
		}
	}

	out := make([]domain.Annotation, len(annotations))
	copy(out, annotations)
	for i := range out {
		if out[i].IsClassified() {
			continue
		}
		src, ok := byGroup[out[i].GroupID()]
		if !ok {
			continue
		}
		out[i].Apply(src.Classification())
		if out[i].StandardizedDate == nil && src.StandardizedDate != nil {
			out[i].StandardizedDate = domain.StringPtr(*src.StandardizedDate)
		}
	}
	return out
}

func clampRect(r domain.Rect, size domain.PageSize) domain.Rect {
	clamp := func(v, limit float64) float64 {
		if v < 0 {
			return 0
		}
		if v > limit {
			return limit
		}
		return v
	}
	return domain.Rect{
		X0: clamp(r.X0, size.Width),
		Y0: clamp(r.Y0, size.Height),
		X1: clamp(r.X1, size.Width),
		Y1: clamp(r.Y1, size.Height),
	}
}
