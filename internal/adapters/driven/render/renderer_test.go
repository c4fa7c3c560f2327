package render

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

type stubDocument struct {
	driven.Document
	name       string
	size       domain.PageSize
	boxes      []domain.TextBox
	highlights map[int][]domain.Rect
}

func (d *stubDocument) FileName() string { return d.name }
func (d *stubDocument) PageCount() int   { return 2 }

func (d *stubDocument) PageSize(page int) (domain.PageSize, error) {
	if page < 0 || page >= d.PageCount() {
		return domain.PageSize{}, domain.ErrPageOutOfRange
	}
	return d.size, nil
}

func (d *stubDocument) TextBoxes(int) ([]domain.TextBox, error) { return d.boxes, nil }

func (d *stubDocument) Highlights(page int) []domain.Rect { return d.highlights[page] }

func newStubDocument() *stubDocument {
	return &stubDocument{
		name: "rfq.pdf",
		size: domain.PageSize{Width: 200, Height: 100},
		boxes: []domain.TextBox{
			{Rect: domain.Rect{X0: 10, Y0: 10, X1: 90, Y1: 22}, Text: "Quote"},
		},
		highlights: map[int][]domain.Rect{
			0: {{X0: 10, Y0: 10, X1: 90, Y1: 22}},
		},
	}
}

func TestRenderer_PNG(t *testing.T) {
	r := New(72, [4]uint8{0, 0, 255, 128}, nil)
	var buf bytes.Buffer

	err := r.Render(context.Background(), newStubDocument(), 0, domain.RenderPNG, &buf)
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	b := img.Bounds()
	assert.InDelta(t, 200, b.Dx(), 1)
	assert.InDelta(t, 100, b.Dy(), 1)
}

func TestRenderer_SVG(t *testing.T) {
	r := New(72, [4]uint8{0, 0, 255, 128}, nil)
	var buf bytes.Buffer

	err := r.Render(context.Background(), newStubDocument(), 0, domain.RenderSVG, &buf)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "<svg"))
}

func TestRenderer_CacheAndInvalidate(t *testing.T) {
	r := New(36, [4]uint8{0, 0, 255, 128}, nil)
	doc := newStubDocument()
	ctx := context.Background()

	var first bytes.Buffer
	require.NoError(t, r.Render(ctx, doc, 0, domain.RenderSVG, &first))
	assert.Equal(t, 1, r.Cached())

	// Cached output is served even though the highlight set changed.
	doc.highlights[0] = append(doc.highlights[0], domain.Rect{X0: 100, Y0: 50, X1: 150, Y1: 60})
	var second bytes.Buffer
	require.NoError(t, r.Render(ctx, doc, 0, domain.RenderSVG, &second))
	assert.Equal(t, first.String(), second.String())

	r.Invalidate("other.pdf", 0)
	assert.Equal(t, 1, r.Cached())

	r.Invalidate("rfq.pdf", 0)
	assert.Equal(t, 0, r.Cached())

	var third bytes.Buffer
	require.NoError(t, r.Render(ctx, doc, 0, domain.RenderSVG, &third))
	assert.NotEqual(t, first.String(), third.String())
}

func TestRenderer_Errors(t *testing.T) {
	r := New(72, [4]uint8{0, 0, 255, 128}, nil)
	doc := newStubDocument()
	var buf bytes.Buffer

	err := r.Render(context.Background(), doc, 5, domain.RenderPNG, &buf)
	assert.ErrorIs(t, err, domain.ErrPageOutOfRange)

	err = r.Render(context.Background(), doc, 0, domain.RenderFormat("gif"), &buf)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = r.Render(ctx, doc, 0, domain.RenderPNG, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
