package pdf

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// highlightLayer keeps highlight marks per page in insertion order. Marks
// are never written into the PDF file.
type highlightLayer struct {
	mu    sync.RWMutex
	marks map[int][]domain.Rect
}

func newHighlightLayer() *highlightLayer {
	return &highlightLayer{marks: make(map[int][]domain.Rect)}
}

func (h *highlightLayer) add(page int, r domain.Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.marks[page] = append(h.marks[page], r)
}

func (h *highlightLayer) remove(page, ordinal int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	marks := h.marks[page]
	if ordinal < 0 || ordinal >= len(marks) {
		return fmt.Errorf("%w: page %d has %d mark(s), wanted #%d",
			domain.ErrHighlightNotFound, page+1, len(marks), ordinal)
	}
	h.marks[page] = append(marks[:ordinal], marks[ordinal+1:]...)
	return nil
}

func (h *highlightLayer) list(page int) []domain.Rect {
	h.mu.RLock()
	defer h.mu.RUnlock()

	marks := h.marks[page]
	out := make([]domain.Rect, len(marks))
	copy(out, marks)
	return out
}
