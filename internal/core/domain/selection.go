package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Selection is a finalised rectangle selection over one or more pages.
// Start and End corners are page-local; a single-page selection has
// StartPage == EndPage and both rects describe the same region.
type Selection struct {
	// StartPage is the page holding the top-left corner of the selection.
	StartPage int

	// StartRect is the selection rectangle on StartPage.
	StartRect Rect

	// EndPage is the page holding the bottom-right corner of the selection.
	EndPage int

	// EndRect is the selection rectangle on EndPage.
	EndRect Rect
}

// SinglePage builds a selection confined to one page.
func SinglePage(page int, r Rect) Selection {
	return Selection{StartPage: page, StartRect: r, EndPage: page, EndRect: r}
}

// IsMultipage reports whether the selection spans more than one page.
func (s Selection) IsMultipage() bool {
	return s.EndPage > s.StartPage
}

// Span returns the number of pages covered.
func (s Selection) Span() int {
	return s.EndPage - s.StartPage + 1
}

// Validate checks page order and the page count of the document.
func (s Selection) Validate(pageCount int) error {
	if s.StartPage < 0 || s.EndPage >= pageCount {
		return fmt.Errorf("%w: pages %d..%d outside document of %d pages",
			ErrInvalidInput, s.StartPage, s.EndPage, pageCount)
	}
	if s.EndPage < s.StartPage {
		return fmt.Errorf("%w: end page %d before start page %d", ErrInvalidInput, s.EndPage, s.StartPage)
	}
	if !s.IsMultipage() && !s.StartRect.IsValid() {
		return fmt.Errorf("%w: empty selection rect %s", ErrInvalidInput, s.StartRect)
	}
	return nil
}

// ParseRect parses "x0,y0,x1,y1" with the corners in any order.
func ParseRect(s string) (Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return Rect{}, fmt.Errorf("%w: rect %q must be x0,y0,x1,y1", ErrInvalidInput, s)
	}
	return NewRect(v[0], v[1], v[2], v[3]), nil
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (float64, float64, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: point %q must be x,y", ErrInvalidInput, s)
	}
	return v[0], v[1], nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
