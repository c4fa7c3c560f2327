package domain

import (
	"fmt"
	"strings"
)

// PageSize is the width and height of a page in page space units.
type PageSize struct {
	Width  float64
	Height float64
}

// Bounds returns the whole page as a rect.
func (p PageSize) Bounds() Rect {
	return Rect{X0: 0, Y0: 0, X1: p.Width, Y1: p.Height}
}

// DocumentMetadata is the descriptive part of a PDF's document
// information dictionary. Missing entries are empty.
type DocumentMetadata struct {
	Title   string
	Author  string
	Subject string
}

// TextBox is a run of text with its bounding box on a page.
type TextBox struct {
	Rect Rect
	Text string
}

// RenderFormat selects the output of a page preview.
type RenderFormat string

// Available render formats.
const (
	RenderPNG RenderFormat = "png"
	RenderSVG RenderFormat = "svg"
)

// ParseRenderFormat parses a format name, case-insensitively.
// An empty name selects PNG.
func ParseRenderFormat(s string) (RenderFormat, error) {
	switch f := RenderFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return RenderPNG, nil
	case RenderPNG, RenderSVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: render format %q", ErrInvalidInput, s)
	}
}
