// Package pdf opens PDF files for annotation. Text and glyph positions come
// from github.com/ledongthuc/pdf; the file is validated and page geometry
// is read with pdfcpu. Highlights live in an in-memory layer on top of the
// unmodified file.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// Ensure Opener implements the interface.
var _ driven.DocumentOpener = (*Opener)(nil)

// Ensure Document implements the interface.
var _ driven.Document = (*Document)(nil)

// Opener opens PDF files from disk.
type Opener struct {
	log *logger.Logger
}

// NewOpener creates a PDF opener.
func NewOpener(log *logger.Logger) *Opener {
	return &Opener{log: log}
}

// Open validates the file with pdfcpu in relaxed mode, reads page sizes
// and prepares the text reader.
func (o *Opener) Open(ctx context.Context, path string) (driven.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	sizes, err := readPageSizes(abs)
	if err != nil {
		return nil, err
	}

	f, reader, err := lpdf.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("opening %s for text extraction: %w", filepath.Base(abs), err)
	}

	if n := reader.NumPage(); n != len(sizes) {
		o.log.Warn("%s: page count mismatch (geometry %d, text %d)", filepath.Base(abs), len(sizes), n)
	}

	o.log.Debug("opened %s: %d page(s)", abs, len(sizes))
	return &Document{
		path:       abs,
		file:       f,
		reader:     reader,
		sizes:      sizes,
		meta:       readMetadata(reader),
		glyphs:     make(map[int][]glyph),
		highlights: newHighlightLayer(),
		log:        o.log,
	}, nil
}

// readMetadata reads the trailer's Info dictionary. Absent keys read as
// empty strings.
func readMetadata(r *lpdf.Reader) domain.DocumentMetadata {
	info := r.Trailer().Key("Info")
	return domain.DocumentMetadata{
		Title:   strings.TrimSpace(info.Key("Title").Text()),
		Author:  strings.TrimSpace(info.Key("Author").Text()),
		Subject: strings.TrimSpace(info.Key("Subject").Text()),
	}
}

// readPageSizes reads every page's dimensions with pdfcpu.
func readPageSizes(path string) ([]domain.PageSize, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	dims, err := pdfCtx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("reading page dimensions: %w", err)
	}

	sizes := make([]domain.PageSize, len(dims))
	for i, d := range dims {
		sizes[i] = domain.PageSize{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}

// Document is an open PDF. It is safe for concurrent use.
type Document struct {
	path       string
	file       *os.File
	reader     *lpdf.Reader
	sizes      []domain.PageSize
	meta       domain.DocumentMetadata
	highlights *highlightLayer
	log        *logger.Logger

	mu     sync.Mutex
	glyphs map[int][]glyph
}

// FileName returns the base name.
func (d *Document) FileName() string {
	return filepath.Base(d.path)
}

// Path returns the absolute path.
func (d *Document) Path() string {
	return d.path
}

// Metadata returns the document information read at open.
func (d *Document) Metadata() domain.DocumentMetadata {
	return d.meta
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.sizes)
}

// PageSize returns the dimensions of a zero-based page.
func (d *Document) PageSize(page int) (domain.PageSize, error) {
	if err := d.check(page); err != nil {
		return domain.PageSize{}, err
	}
	return d.sizes[page], nil
}

// TextInRect returns the text whose glyph centres fall inside clip.
func (d *Document) TextInRect(page int, clip domain.Rect) (string, error) {
	glyphs, err := d.pageGlyphs(page)
	if err != nil {
		return "", err
	}
	return clipText(glyphs, clip), nil
}

// TextBoxes returns the word boxes of a page.
func (d *Document) TextBoxes(page int) ([]domain.TextBox, error) {
	glyphs, err := d.pageGlyphs(page)
	if err != nil {
		return nil, err
	}
	return textBoxes(glyphs), nil
}

// AddHighlight appends a mark to a page.
func (d *Document) AddHighlight(page int, r domain.Rect) error {
	if err := d.check(page); err != nil {
		return err
	}
	d.highlights.add(page, r)
	return nil
}

// RemoveHighlight deletes the mark at ordinal.
func (d *Document) RemoveHighlight(page, ordinal int) error {
	if err := d.check(page); err != nil {
		return err
	}
	return d.highlights.remove(page, ordinal)
}

// Highlights returns the marks of a page.
func (d *Document) Highlights(page int) []domain.Rect {
	return d.highlights.list(page)
}

// Close closes the underlying file.
func (d *Document) Close() error {
	return d.file.Close()
}

// pageGlyphs extracts and caches the glyphs of a page.
func (d *Document) pageGlyphs(page int) (glyphs []glyph, err error) {
	if err := d.check(page); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if cached, ok := d.glyphs[page]; ok {
		return cached, nil
	}

	// The content stream parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extracting text from page %d: %v", page+1, r)
		}
	}()

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("%w: page %d has no content", domain.ErrPageOutOfRange, page+1)
	}

	llx, lly := mediaBoxOrigin(p)
	content := p.Content()
	runs := make([]run, 0, len(content.Text))
	for _, t := range content.Text {
		runs = append(runs, run{x: t.X, y: t.Y, w: t.W, size: t.FontSize, s: t.S})
	}

	glyphs = toGlyphs(runs, d.sizes[page].Height, llx, lly)
	d.glyphs[page] = glyphs
	d.log.Debug("%s page %d: %d text run(s)", d.FileName(), page+1, len(glyphs))
	return glyphs, nil
}

func (d *Document) check(page int) error {
	if page < 0 || page >= len(d.sizes) {
		return fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, page+1, len(d.sizes))
	}
	return nil
}

// mediaBoxOrigin returns the lower-left corner of the page's media box.
func mediaBoxOrigin(p lpdf.Page) (float64, float64) {
	box := p.V.Key("MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return 0, 0
	}
	return box.Index(0).Float64(), box.Index(1).Float64()
}
