package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// Ensure AnnotationSession implements the interface.
var _ driving.AnnotationService = (*AnnotationSession)(nil)

// AnnotationSession holds the open document, its annotation collection and
// at most one pending selection. One mutex serialises every mutation so a
// collection change and its store write form one unit.
type AnnotationSession struct {
	mu sync.Mutex

	opener      driven.DocumentOpener
	store       driven.AnnotationStore
	reconciler  *Reconciler
	invalidator driven.PageInvalidator
	log         *logger.Logger

	doc          driven.Document
	items        *Collection
	pending      *driving.PendingSelection
	lastLineItem string
}

// NewAnnotationSession creates a session with no document open.
// invalidator may be nil.
func NewAnnotationSession(
	opener driven.DocumentOpener,
	store driven.AnnotationStore,
	reconciler *Reconciler,
	invalidator driven.PageInvalidator,
	log *logger.Logger,
) *AnnotationSession {
	if invalidator == nil {
		invalidator = nopInvalidator{}
	}
	return &AnnotationSession{
		opener:      opener,
		store:       store,
		reconciler:  reconciler,
		invalidator: invalidator,
		log:         log,
		items:       NewCollection(),
	}
}

// Open loads a PDF and its stored annotations. Any previously open
// document is closed first and the last line item number is reset.
func (s *AnnotationSession) Open(ctx context.Context, path string) (*driving.DocumentInfo, error) {
	doc, err := s.opener.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc != nil {
		if err := s.doc.Close(); err != nil {
			s.log.Warn("closing %s: %v", s.doc.FileName(), err)
		}
	}
	s.doc = doc
	s.items.Clear()
	s.pending = nil
	s.lastLineItem = ""

	s.log.Section("Open " + doc.FileName())
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s.info(), nil
}

// Close releases the open document. Stored annotations are kept.
func (s *AnnotationSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil
	}
	doc := s.doc
	s.doc = nil
	s.items.Clear()
	s.pending = nil
	return doc.Close()
}

// Info describes the open document.
func (s *AnnotationSession) Info() (*driving.DocumentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, domain.ErrNoDocument
	}
	return s.info(), nil
}

// Begin extracts and highlights the fragments of sel. Text extraction
// happens before any highlight is drawn, so a failure leaves no trace.
func (s *AnnotationSession) Begin(_ context.Context, sel domain.Selection) (*driving.PendingSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, domain.ErrNoDocument
	}
	if s.pending != nil {
		return nil, domain.ErrSelectionInFlight
	}
	if err := sel.Validate(s.doc.PageCount()); err != nil {
		return nil, err
	}

	fragments, err := s.reconciler.Fragments(s.doc, sel)
	if err != nil {
		return nil, err
	}

	for i := range fragments {
		if err := s.doc.AddHighlight(fragments[i].Page, fragments[i].Rect); err != nil {
			s.unwind(fragments[:i])
			return nil, fmt.Errorf("highlighting page %d: %w", fragments[i].Page+1, err)
		}
	}
	s.invalidate(fragments)

	pending := &driving.PendingSelection{
		Request: domain.ClassificationRequest{
			FileName:           s.doc.FileName(),
			Page:               sel.StartPage,
			Text:               CompleteText(fragments),
			Fragments:          len(fragments),
			LastLineItemNumber: s.lastLineItem,
		},
		Fragments: fragments,
	}
	if len(fragments) > 0 {
		pending.GroupID = fragments[0].GroupID()
	}
	s.pending = pending
	return pending, nil
}

// Resolve commits or unwinds a pending selection. A cancelled result
// removes every fragment highlight and returns nil, nil. An invalid
// classification is rejected and the selection stays pending.
func (s *AnnotationSession) Resolve(
	ctx context.Context,
	pending *driving.PendingSelection,
	result domain.ClassificationResult,
) ([]domain.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pending == nil || pending != s.pending {
		return nil, domain.ErrStaleSelection
	}

	if !result.Accepted {
		s.pending = nil
		s.unwind(pending.Fragments)
		s.invalidate(pending.Fragments)
		s.log.Debug("selection on %s cancelled", pending.Request.FileName)
		return nil, nil
	}

	c := result.Classification.Normalised()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s.pending = nil

	fragments := s.reconciler.Apply(pending.Fragments, c)
	if err := s.persist(ctx, fragments); err != nil {
		s.unwind(pending.Fragments)
		s.invalidate(pending.Fragments)
		return nil, err
	}

	s.items.Append(fragments...)
	if c.Type == domain.AnnotationLineItem && c.LineItemNumber != "" {
		s.lastLineItem = c.LineItemNumber
	}
	s.invalidate(fragments)

	s.log.Info("annotated %s page %d as %s/%s (%d fragment(s))",
		pending.Request.FileName, pending.Request.Page+1, c.Type, c.Field, len(fragments))

	out := make([]domain.Annotation, len(fragments))
	copy(out, fragments)
	return out, nil
}

// Annotate runs a selection through Begin, one classifier call and Resolve.
func (s *AnnotationSession) Annotate(
	ctx context.Context,
	sel domain.Selection,
	classifier driven.Classifier,
) ([]domain.Annotation, error) {
	pending, err := s.Begin(ctx, sel)
	if err != nil {
		return nil, err
	}

	result, err := classifier.Classify(ctx, pending.Request)
	if err != nil {
		_, _ = s.Resolve(ctx, pending, domain.Cancel())
		return nil, fmt.Errorf("classifying selection: %w", err)
	}

	annotations, err := s.Resolve(ctx, pending, result)
	if err != nil && s.isPending(pending) {
		_, _ = s.Resolve(ctx, pending, domain.Cancel())
	}
	return annotations, err
}

// Annotations returns a copy of the collection.
func (s *AnnotationSession) Annotations() []domain.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.All()
}

// RemoveAt removes the annotation at a collection index.
func (s *AnnotationSession) RemoveAt(ctx context.Context, index int) (*driving.RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAt(ctx, index)
}

// RemoveLast removes the newest annotation. Stored annotations load in
// group order, so the newest one is found by durable id rather than by
// position.
func (s *AnnotationSession) RemoveLast(ctx context.Context) (*driving.RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAt(ctx, s.items.Newest())
}

// RemoveByID removes the annotation carrying a durable id.
func (s *AnnotationSession) RemoveByID(ctx context.Context, id int64) (*driving.RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.items.IndexOfID(id)
	if index < 0 {
		return nil, fmt.Errorf("annotation %d: %w", id, domain.ErrNotFound)
	}
	return s.removeAt(ctx, index)
}

// Reload drops the collection and its highlights and re-reads the store.
func (s *AnnotationSession) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return domain.ErrNoDocument
	}
	if s.pending != nil {
		return domain.ErrSelectionInFlight
	}

	all := s.items.All()
	for i := len(all) - 1; i >= 0; i-- {
		ordinal, _ := s.items.PageOrdinal(i)
		if err := s.doc.RemoveHighlight(all[i].Page, ordinal); err != nil {
			s.log.Debug("reload: highlight %d on page %d: %v", ordinal, all[i].Page+1, err)
		}
	}
	s.invalidate(all)
	s.items.Clear()
	return s.load(ctx)
}

// LastLineItemNumber is the line item number of the last accepted
// line item classification since the document was opened.
func (s *AnnotationSession) LastLineItemNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLineItem
}

// WithDocument runs fn with the open document while holding the session
// lock. fn must not call back into the session.
func (s *AnnotationSession) WithDocument(fn func(doc driven.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return domain.ErrNoDocument
	}
	return fn(s.doc)
}

func (s *AnnotationSession) removeAt(ctx context.Context, index int) (*driving.RemoveResult, error) {
	if s.doc == nil {
		return nil, domain.ErrNoDocument
	}

	a, err := s.items.At(index)
	if err != nil {
		return nil, err
	}
	ordinal, err := s.items.PageOrdinal(index)
	if err != nil {
		return nil, err
	}

	highlightErr := s.doc.RemoveHighlight(a.Page, ordinal)

	var storeErr error
	if a.ID != nil {
		if err := s.store.DeleteByID(ctx, *a.ID); err != nil {
			storeErr = fmt.Errorf("deleting annotation %d: %w", *a.ID, err)
		}
	}

	if highlightErr != nil && storeErr != nil {
		return nil, errors.Join(highlightErr, storeErr)
	}

	if _, err := s.items.RemoveAt(index); err != nil {
		return nil, err
	}
	s.invalidator.Invalidate(a.FileName, a.Page)

	result := &driving.RemoveResult{Annotation: a, Outcome: driving.RemovedBoth}
	switch {
	case storeErr != nil:
		result.Outcome = driving.RemovedFromDocumentOnly
		result.Err = storeErr
		s.log.Warn("annotation removed from document but not from store: %v", storeErr)
	case highlightErr != nil:
		result.Outcome = driving.RemovedFromStoreOnly
		result.Err = highlightErr
		s.log.Warn("annotation removed from store but its highlight on page %d was not found: %v",
			a.Page+1, highlightErr)
	default:
		s.log.Debug("removed annotation %d (%s) from %s page %d", index, a.Field, a.FileName, a.Page+1)
	}
	return result, nil
}

// persist inserts every fragment and records the new ids. On failure the
// rows already written are deleted again.
func (s *AnnotationSession) persist(ctx context.Context, fragments []domain.Annotation) error {
	fileName := s.doc.FileName()
	for i := range fragments {
		id, err := s.store.Insert(ctx, fileName, &fragments[i])
		if err != nil {
			for j := 0; j < i; j++ {
				if derr := s.store.DeleteByID(ctx, *fragments[j].ID); derr != nil {
					s.log.Warn("rolling back annotation %d: %v", *fragments[j].ID, derr)
				}
			}
			return fmt.Errorf("persisting annotation: %w", err)
		}
		fragments[i].ID = domain.Int64Ptr(id)
	}
	return nil
}

// load appends stored annotations for the open document and draws them.
func (s *AnnotationSession) load(ctx context.Context) error {
	rows, err := s.store.QueryByFile(ctx, s.doc.FileName())
	if err != nil {
		return fmt.Errorf("loading annotations: %w", err)
	}
	rows = Propagate(rows)

	pages := s.doc.PageCount()
	for i := range rows {
		if rows[i].Page < 0 || rows[i].Page >= pages {
			s.log.Warn("skipping annotation on page %d of %d-page %s", rows[i].Page+1, pages, s.doc.FileName())
			continue
		}
		if err := s.doc.AddHighlight(rows[i].Page, rows[i].Rect); err != nil {
			s.log.Warn("highlighting stored annotation on page %d: %v", rows[i].Page+1, err)
			continue
		}
		s.items.Append(rows[i])
	}

	all := make([]int, pages)
	for i := range all {
		all[i] = i
	}
	s.invalidator.Invalidate(s.doc.FileName(), all...)

	s.log.Info("loaded %d annotation(s) for %s", s.items.Len(), s.doc.FileName())
	return nil
}

// unwind removes the highlights of fragments that are not in the
// collection. Their marks are the last ones on each page.
func (s *AnnotationSession) unwind(fragments []domain.Annotation) {
	for i := len(fragments) - 1; i >= 0; i-- {
		page := fragments[i].Page
		if err := s.doc.RemoveHighlight(page, s.items.CountOnPage(page)); err != nil {
			s.log.Warn("removing highlight on page %d: %v", page+1, err)
		}
	}
}

func (s *AnnotationSession) invalidate(annotations []domain.Annotation) {
	if len(annotations) == 0 {
		return
	}
	pages := make([]int, 0, len(annotations))
	for i := range annotations {
		pages = append(pages, annotations[i].Page)
	}
	s.invalidator.Invalidate(annotations[0].FileName, pages...)
}

func (s *AnnotationSession) isPending(p *driving.PendingSelection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending == p
}

func (s *AnnotationSession) info() *driving.DocumentInfo {
	return &driving.DocumentInfo{
		FileName:    s.doc.FileName(),
		Path:        s.doc.Path(),
		PageCount:   s.doc.PageCount(),
		Annotations: s.items.Len(),
		Metadata:    s.doc.Metadata(),
	}
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(string, ...int) {}
