package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// word builds runs for s with one run per character of width 6.
func word(s string, x, y float64) []run {
	runs := make([]run, 0, len(s))
	for i, ch := range s {
		runs = append(runs, run{x: x + float64(i)*6, y: y, w: 6, size: 12, s: string(ch)})
	}
	return runs
}

func TestToGlyphs_FlipsToTopLeft(t *testing.T) {
	glyphs := toGlyphs([]run{{x: 72, y: 700, w: 30, size: 12, s: "ACME"}}, 792, 0, 0)

	require.Len(t, glyphs, 1)
	assert.Equal(t, domain.Rect{X0: 72, Y0: 80, X1: 102, Y1: 92}, glyphs[0].rect)
}

func TestToGlyphs_MediaBoxOffsetAndEmptyRuns(t *testing.T) {
	glyphs := toGlyphs([]run{
		{x: 110, y: 120, w: 10, size: 10, s: "x"},
		{x: 0, y: 0, w: 0, size: 10, s: ""},
	}, 200, 100, 100)

	require.Len(t, glyphs, 1)
	assert.Equal(t, domain.Rect{X0: 10, Y0: 170, X1: 20, Y1: 180}, glyphs[0].rect)
}

func TestClipText_CentreInside(t *testing.T) {
	var runs []run
	runs = append(runs, word("Total", 72, 700)...)
	runs = append(runs, word("EUR", 200, 700)...)
	runs = append(runs, word("Due", 72, 680)...)
	glyphs := toGlyphs(runs, 792, 0, 0)

	// Baseline 92, glyph boxes span y 80..92.
	assert.Equal(t, "Total EUR\nDue", clipText(glyphs, domain.Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}))
	assert.Equal(t, "Total", clipText(glyphs, domain.Rect{X0: 60, Y0: 75, X1: 110, Y1: 95}))
	assert.Equal(t, "Due", clipText(glyphs, domain.Rect{X0: 60, Y0: 100, X1: 110, Y1: 115}))
	assert.Empty(t, clipText(glyphs, domain.Rect{X0: 400, Y0: 400, X1: 500, Y1: 500}))
}

func TestClipText_PartialGlyphExcluded(t *testing.T) {
	glyphs := toGlyphs(word("AB", 100, 700), 792, 0, 0)

	// A spans x 100..106 (centre 103), B spans 106..112 (centre 109).
	assert.Equal(t, "A", clipText(glyphs, domain.Rect{X0: 90, Y0: 70, X1: 108, Y1: 100}))
}

func TestClipText_ExplicitSpacesKept(t *testing.T) {
	glyphs := toGlyphs(word("2024 03 07", 72, 700), 792, 0, 0)
	assert.Equal(t, "2024 03 07", clipText(glyphs, domain.Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}))
}

func TestTextBoxes(t *testing.T) {
	var runs []run
	runs = append(runs, word("Part", 72, 700)...)
	runs = append(runs, word("no", 120, 700)...)
	runs = append(runs, word("42", 72, 650)...)
	boxes := textBoxes(toGlyphs(runs, 792, 0, 0))

	require.Len(t, boxes, 3)
	assert.Equal(t, "Part", boxes[0].Text)
	assert.Equal(t, domain.Rect{X0: 72, Y0: 80, X1: 96, Y1: 92}, boxes[0].Rect)
	assert.Equal(t, "no", boxes[1].Text)
	assert.Equal(t, "42", boxes[2].Text)
}

func TestHighlightLayer(t *testing.T) {
	h := newHighlightLayer()
	a := domain.Rect{X0: 1, Y0: 1, X1: 2, Y1: 2}
	b := domain.Rect{X0: 3, Y0: 3, X1: 4, Y1: 4}

	h.add(0, a)
	h.add(0, b)
	h.add(1, a)

	assert.Equal(t, []domain.Rect{a, b}, h.list(0))
	require.NoError(t, h.remove(0, 0))
	assert.Equal(t, []domain.Rect{b}, h.list(0))
	assert.ErrorIs(t, h.remove(0, 1), domain.ErrHighlightNotFound)
	assert.ErrorIs(t, h.remove(5, 0), domain.ErrHighlightNotFound)
	assert.Empty(t, h.list(5))
}
