package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// glyph is one positioned text run in top-left page coordinates.
type glyph struct {
	rect domain.Rect
	text string
	size float64
}

// run is a text item as reported by the content stream parser: baseline
// origin in bottom-left coordinates, advance width and font size.
type run struct {
	x, y, w, size float64
	s             string
}

// toGlyphs converts runs to top-left coordinates for a page of the given
// height whose media box starts at (llx, lly).
func toGlyphs(runs []run, height, llx, lly float64) []glyph {
	out := make([]glyph, 0, len(runs))
	for _, r := range runs {
		if r.s == "" {
			continue
		}
		size := r.size
		if size <= 0 {
			size = 1
		}
		baseline := height - (r.y - lly)
		left := r.x - llx
		out = append(out, glyph{
			rect: domain.Rect{X0: left, Y0: baseline - size, X1: left + r.w, Y1: baseline},
			text: r.s,
			size: size,
		})
	}
	return out
}

// center returns the midpoint of a glyph box.
func (g glyph) center() (float64, float64) {
	return (g.rect.X0 + g.rect.X1) / 2, (g.rect.Y0 + g.rect.Y1) / 2
}

// clipText returns the text of glyphs whose centre lies inside clip,
// assembled into lines top to bottom.
func clipText(glyphs []glyph, clip domain.Rect) string {
	var inside []glyph
	for _, g := range glyphs {
		if clip.Contains(g.center()) {
			inside = append(inside, g)
		}
	}
	lines := groupLines(inside)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := strings.TrimSpace(joinLine(line)); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

// textBoxes merges glyphs into word boxes.
func textBoxes(glyphs []glyph) []domain.TextBox {
	var boxes []domain.TextBox
	for _, line := range groupLines(glyphs) {
		var cur *domain.TextBox
		var prev glyph
		for _, g := range line {
			word := strings.TrimSpace(g.text)
			if word == "" || (cur != nil && gap(prev, g) > spaceWidth(g)) {
				if cur != nil {
					boxes = append(boxes, *cur)
					cur = nil
				}
				if word == "" {
					continue
				}
			}
			if cur == nil {
				cur = &domain.TextBox{Rect: g.rect, Text: word}
			} else {
				cur.Text += word
				cur.Rect = union(cur.Rect, g.rect)
			}
			prev = g
		}
		if cur != nil {
			boxes = append(boxes, *cur)
		}
	}
	return boxes
}

// groupLines clusters glyphs sharing a baseline and orders them reading
// order: lines top to bottom, glyphs left to right.
func groupLines(glyphs []glyph) [][]glyph {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].rect.Y1 < sorted[j].rect.Y1
	})

	var lines [][]glyph
	var baseline float64
	for _, g := range sorted {
		n := len(lines)
		if n > 0 && math.Abs(g.rect.Y1-baseline) <= g.size/2 {
			lines[n-1] = append(lines[n-1], g)
			continue
		}
		lines = append(lines, []glyph{g})
		baseline = g.rect.Y1
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].rect.X0 < line[j].rect.X0
		})
	}
	return lines
}

// joinLine concatenates a line, inserting a space where glyphs are
// separated by a visible gap and no explicit space exists.
func joinLine(line []glyph) string {
	var b strings.Builder
	for i, g := range line {
		if i > 0 && gap(line[i-1], g) > spaceWidth(g) &&
			!strings.HasSuffix(line[i-1].text, " ") && !strings.HasPrefix(g.text, " ") {
			b.WriteByte(' ')
		}
		b.WriteString(g.text)
	}
	return b.String()
}

func gap(a, b glyph) float64 {
	return b.rect.X0 - a.rect.X1
}

func spaceWidth(g glyph) float64 {
	return g.size * 0.2
}

func union(a, b domain.Rect) domain.Rect {
	return domain.Rect{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}
