package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfmark/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/logger"
	"github.com/custodia-labs/pdfmark/internal/normalisers/date"
)

var errBoom = errors.New("boom")

// fakeDocument is an in-memory document with word boxes per page.
type fakeDocument struct {
	name       string
	sizes      []domain.PageSize
	words      map[int][]domain.TextBox
	highlights map[int][]domain.Rect
	textErr    map[int]error
	addErr     error
	closed     bool
	meta       domain.DocumentMetadata
}

func newFakeDocument(name string, pages int) *fakeDocument {
	sizes := make([]domain.PageSize, pages)
	for i := range sizes {
		sizes[i] = domain.PageSize{Width: 612, Height: 792}
	}
	return &fakeDocument{
		name:       name,
		sizes:      sizes,
		words:      make(map[int][]domain.TextBox),
		highlights: make(map[int][]domain.Rect),
		textErr:    make(map[int]error),
	}
}

func (d *fakeDocument) word(page int, r domain.Rect, text string) *fakeDocument {
	d.words[page] = append(d.words[page], domain.TextBox{Rect: r, Text: text})
	return d
}

func (d *fakeDocument) FileName() string { return d.name }
func (d *fakeDocument) Path() string     { return "/docs/" + d.name }
func (d *fakeDocument) PageCount() int   { return len(d.sizes) }

func (d *fakeDocument) Metadata() domain.DocumentMetadata { return d.meta }

func (d *fakeDocument) PageSize(page int) (domain.PageSize, error) {
	if page < 0 || page >= len(d.sizes) {
		return domain.PageSize{}, domain.ErrPageOutOfRange
	}
	return d.sizes[page], nil
}

func (d *fakeDocument) TextInRect(page int, clip domain.Rect) (string, error) {
	if err := d.textErr[page]; err != nil {
		return "", err
	}
	var lines []string
	for _, w := range d.words[page] {
		cx := (w.Rect.X0 + w.Rect.X1) / 2
		cy := (w.Rect.Y0 + w.Rect.Y1) / 2
		if clip.Contains(cx, cy) {
			lines = append(lines, w.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (d *fakeDocument) TextBoxes(page int) ([]domain.TextBox, error) {
	return d.words[page], nil
}

func (d *fakeDocument) AddHighlight(page int, r domain.Rect) error {
	if d.addErr != nil {
		return d.addErr
	}
	d.highlights[page] = append(d.highlights[page], r)
	return nil
}

func (d *fakeDocument) RemoveHighlight(page, ordinal int) error {
	marks := d.highlights[page]
	if ordinal < 0 || ordinal >= len(marks) {
		return fmt.Errorf("%w: page %d ordinal %d", domain.ErrHighlightNotFound, page, ordinal)
	}
	d.highlights[page] = append(marks[:ordinal], marks[ordinal+1:]...)
	return nil
}

func (d *fakeDocument) Highlights(page int) []domain.Rect {
	return append([]domain.Rect(nil), d.highlights[page]...)
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

// totalHighlights counts marks across all pages.
func (d *fakeDocument) totalHighlights() int {
	n := 0
	for _, marks := range d.highlights {
		n += len(marks)
	}
	return n
}

// fakeOpener returns prepared documents by base name. Opening a document
// again returns it with an empty highlight layer.
type fakeOpener struct {
	docs map[string]*fakeDocument
	err  error
}

func newFakeOpener(docs ...*fakeDocument) *fakeOpener {
	o := &fakeOpener{docs: make(map[string]*fakeDocument)}
	for _, d := range docs {
		o.docs[d.name] = d
	}
	return o
}

func (o *fakeOpener) Open(_ context.Context, path string) (driven.Document, error) {
	if o.err != nil {
		return nil, o.err
	}
	d, ok := o.docs[domain.BaseName(path)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	d.highlights = make(map[int][]domain.Rect)
	d.closed = false
	return d, nil
}

// seqIDs mints group-1, group-2, ...
type seqIDs struct {
	n int
}

func (g *seqIDs) NewGroupID() string {
	g.n++
	return fmt.Sprintf("group-%d", g.n)
}

// recordingInvalidator remembers every invalidated page.
type recordingInvalidator struct {
	mu    sync.Mutex
	pages map[int]int
}

func newRecordingInvalidator() *recordingInvalidator {
	return &recordingInvalidator{pages: make(map[int]int)}
}

func (r *recordingInvalidator) Invalidate(_ string, pages ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pages {
		r.pages[p]++
	}
}

func (r *recordingInvalidator) count(page int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pages[page]
}

// failingStore wraps the memory store and fails selected operations.
type failingStore struct {
	*memory.AnnotationStore
	failInsertAfter int
	inserts         int
	failDelete      bool
	failQuery       bool
}

func newFailingStore() *failingStore {
	return &failingStore{AnnotationStore: memory.NewAnnotationStore(), failInsertAfter: -1}
}

func (s *failingStore) Insert(ctx context.Context, fileName string, a *domain.Annotation) (int64, error) {
	if s.failInsertAfter >= 0 && s.inserts >= s.failInsertAfter {
		return 0, errBoom
	}
	s.inserts++
	return s.AnnotationStore.Insert(ctx, fileName, a)
}

func (s *failingStore) DeleteByID(ctx context.Context, id int64) error {
	if s.failDelete {
		return errBoom
	}
	return s.AnnotationStore.DeleteByID(ctx, id)
}

func (s *failingStore) QueryByFile(ctx context.Context, fileName string) ([]domain.Annotation, error) {
	if s.failQuery {
		return nil, errBoom
	}
	return s.AnnotationStore.QueryByFile(ctx, fileName)
}

// funcClassifier adapts a function and counts calls.
type funcClassifier struct {
	calls int
	reqs  []domain.ClassificationRequest
	fn    func(req domain.ClassificationRequest) (domain.ClassificationResult, error)
}

func (c *funcClassifier) Classify(_ context.Context, req domain.ClassificationRequest) (domain.ClassificationResult, error) {
	c.calls++
	c.reqs = append(c.reqs, req)
	return c.fn(req)
}

func accept(c domain.Classification) *funcClassifier {
	return &funcClassifier{fn: func(domain.ClassificationRequest) (domain.ClassificationResult, error) {
		return domain.Accept(c), nil
	}}
}

func cancelling() *funcClassifier {
	return &funcClassifier{fn: func(domain.ClassificationRequest) (domain.ClassificationResult, error) {
		return domain.Cancel(), nil
	}}
}

// sessionFixture wires a session over fakes.
type sessionFixture struct {
	session     *AnnotationSession
	doc         *fakeDocument
	opener      *fakeOpener
	store       *failingStore
	invalidator *recordingInvalidator
}

func newSessionFixture(doc *fakeDocument) *sessionFixture {
	store := newFailingStore()
	opener := newFakeOpener(doc)
	inv := newRecordingInvalidator()
	reconciler := NewReconciler(&seqIDs{}, date.New(), logger.Nop())
	return &sessionFixture{
		session:     NewAnnotationSession(opener, store, reconciler, inv, logger.Nop()),
		doc:         doc,
		opener:      opener,
		store:       store,
		invalidator: inv,
	}
}

func meta(field string) domain.Classification {
	return domain.Classification{Type: domain.AnnotationMeta, Field: field}
}

func lineItem(field, number string) domain.Classification {
	return domain.Classification{Type: domain.AnnotationLineItem, Field: field, LineItemNumber: number}
}
