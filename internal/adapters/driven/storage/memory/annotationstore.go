package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// Ensure AnnotationStore implements the interface.
var _ driven.AnnotationStore = (*AnnotationStore)(nil)

// AnnotationStore is an in-memory implementation of driven.AnnotationStore.
// It applies the same orderings as the SQL stores.
type AnnotationStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.Annotation
	now    func() time.Time
}

// NewAnnotationStore creates a new in-memory annotation store.
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{
		nextID: 1,
		rows:   make(map[int64]domain.Annotation),
		now:    time.Now,
	}
}

// Insert stores a copy of a and returns its new ID.
func (s *AnnotationStore) Insert(_ context.Context, fileName string, a *domain.Annotation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	row := *a
	row.ID = domain.Int64Ptr(id)
	row.FileName = domain.BaseName(fileName)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now()
	}
	if a.Multipage != nil {
		mp := *a.Multipage
		row.Multipage = &mp
	}
	if a.StandardizedDate != nil {
		row.StandardizedDate = domain.StringPtr(*a.StandardizedDate)
	}
	s.rows[id] = row
	return id, nil
}

// QueryByFile returns the annotations of a file ordered by
// (group_id, multipage_position, id).
func (s *AnnotationStore) QueryByFile(_ context.Context, fileName string) ([]domain.Annotation, error) {
	rows := s.byFile(fileName)
	sort.Slice(rows, func(i, j int) bool {
		return queryLess(&rows[i], &rows[j])
	})
	return rows, nil
}

// DeleteByID removes one annotation.
func (s *AnnotationStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// ListForExport returns the annotations of a file ordered by
// (field_name, line_item_number, group_id, multipage_position, id).
func (s *AnnotationStore) ListForExport(_ context.Context, fileName string) ([]domain.Annotation, error) {
	rows := s.byFile(fileName)
	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		if a.LineItemNumber != b.LineItemNumber {
			return a.LineItemNumber < b.LineItemNumber
		}
		return queryLess(a, b)
	})
	return rows, nil
}

// ListFiles summarises every file with at least one annotation.
func (s *AnnotationStore) ListFiles(_ context.Context) ([]domain.FileSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byName := make(map[string]*domain.FileSummary)
	pages := make(map[string]map[int]struct{})
	for _, row := range s.rows {
		sum, ok := byName[row.FileName]
		if !ok {
			sum = &domain.FileSummary{FileName: row.FileName}
			byName[row.FileName] = sum
			pages[row.FileName] = make(map[int]struct{})
		}
		sum.Annotations++
		pages[row.FileName][row.Page] = struct{}{}
	}

	files := make([]domain.FileSummary, 0, len(byName))
	for name, sum := range byName {
		sum.Pages = len(pages[name])
		files = append(files, *sum)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].FileName < files[j].FileName })
	return files, nil
}

// Len returns the number of stored annotations.
func (s *AnnotationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *AnnotationStore) byFile(fileName string) []domain.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := domain.BaseName(fileName)
	rows := make([]domain.Annotation, 0)
	for _, row := range s.rows {
		if row.FileName == name {
			rows = append(rows, row)
		}
	}
	return rows
}

// queryLess orders by group id, then position, then id. Single-page
// annotations have an empty group and position 0, matching the SQL
// stores' COALESCE ordering.
func queryLess(a, b *domain.Annotation) bool {
	if a.GroupID() != b.GroupID() {
		return a.GroupID() < b.GroupID()
	}
	pa, pb := position(a), position(b)
	if pa != pb {
		return pa < pb
	}
	return *a.ID < *b.ID
}

func position(a *domain.Annotation) int {
	if a.Multipage == nil {
		return 0
	}
	return a.Multipage.Position
}
