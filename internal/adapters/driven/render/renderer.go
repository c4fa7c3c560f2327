// Package render draws page previews with github.com/tdewolff/canvas.
//
// A preview shows the page box, the boxes of the page's words and the
// highlight marks of the annotation layer. Glyph outlines are not drawn;
// the preview is for locating regions, not for reading.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// Ensure Renderer implements the interfaces.
var (
	_ driven.PageRenderer    = (*Renderer)(nil)
	_ driven.PageInvalidator = (*Renderer)(nil)
)

// mmPerPoint converts PDF points to canvas millimetres.
const mmPerPoint = 25.4 / 72

var (
	pageFill   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	pageStroke = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	wordFill   = color.NRGBA{R: 90, G: 90, B: 90, A: 70}
)

type cacheKey struct {
	fileName string
	page     int
	format   domain.RenderFormat
}

// Renderer renders previews and caches them per page until invalidated.
type Renderer struct {
	dpi       float64
	highlight color.NRGBA
	log       *logger.Logger

	mu    sync.Mutex
	cache map[cacheKey][]byte
}

// New creates a renderer for the given resolution and highlight colour.
func New(dpi int, highlight [4]uint8, log *logger.Logger) *Renderer {
	if dpi <= 0 {
		dpi = 300
	}
	return &Renderer{
		dpi:       float64(dpi),
		highlight: color.NRGBA{R: highlight[0], G: highlight[1], B: highlight[2], A: highlight[3]},
		log:       log,
		cache:     make(map[cacheKey][]byte),
	}
}

// Render writes the preview of a zero-based page to w.
func (r *Renderer) Render(ctx context.Context, doc driven.Document, page int, format domain.RenderFormat, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if format == "" {
		format = domain.RenderPNG
	}

	key := cacheKey{fileName: doc.FileName(), page: page, format: format}
	if data, ok := r.cached(key); ok {
		_, err := w.Write(data)
		return err
	}

	c, err := r.draw(doc, page)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case domain.RenderPNG:
		img := rasterizer.Draw(c, canvas.DPMM(r.dpi/25.4), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encoding png: %w", err)
		}
	case domain.RenderSVG:
		if err := c.Write(&buf, renderers.SVG()); err != nil {
			return fmt.Errorf("encoding svg: %w", err)
		}
	default:
		return fmt.Errorf("%w: render format %q", domain.ErrInvalidInput, format)
	}

	r.store(key, buf.Bytes())
	r.log.Debug("rendered %s page %d as %s (%d bytes)", key.fileName, page+1, format, buf.Len())
	_, err = w.Write(buf.Bytes())
	return err
}

// Invalidate drops cached previews of the given pages.
func (r *Renderer) Invalidate(fileName string, pages ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pages {
		for _, f := range []domain.RenderFormat{domain.RenderPNG, domain.RenderSVG} {
			delete(r.cache, cacheKey{fileName: fileName, page: p, format: f})
		}
	}
}

// Cached reports how many previews are cached.
func (r *Renderer) Cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Renderer) draw(doc driven.Document, page int) (*canvas.Canvas, error) {
	size, err := doc.PageSize(page)
	if err != nil {
		return nil, err
	}
	boxes, err := doc.TextBoxes(page)
	if err != nil {
		r.log.Warn("preview of %s page %d without text boxes: %v", doc.FileName(), page+1, err)
		boxes = nil
	}

	width := size.Width * mmPerPoint
	height := size.Height * mmPerPoint

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)

	ctx.SetFillColor(pageFill)
	ctx.SetStrokeColor(pageStroke)
	ctx.SetStrokeWidth(0.3)
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	ctx.SetStrokeColor(canvas.Transparent)
	ctx.SetFillColor(wordFill)
	for _, b := range boxes {
		drawRect(ctx, b.Rect, size.Height)
	}

	ctx.SetFillColor(r.highlight)
	for _, h := range doc.Highlights(page) {
		drawRect(ctx, h, size.Height)
	}

	return c, nil
}

// drawRect fills a top-left page rectangle. Canvas coordinates grow
// upwards from the bottom-left corner.
func drawRect(ctx *canvas.Context, rect domain.Rect, pageHeight float64) {
	x := rect.X0 * mmPerPoint
	y := (pageHeight - rect.Y1) * mmPerPoint
	ctx.DrawPath(x, y, canvas.Rectangle(rect.Width()*mmPerPoint, rect.Height()*mmPerPoint))
}

func (r *Renderer) cached(key cacheKey) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.cache[key]
	return data, ok
}

func (r *Renderer) store(key cacheKey, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = data
}
