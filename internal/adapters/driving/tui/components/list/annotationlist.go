// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/services"
)

// AnnotationList displays annotations in insertion order as a navigable list.
type AnnotationList struct {
	annotations []domain.Annotation
	selected    int
	styles      *styles.Styles
	width       int
	height      int
}

// NewAnnotationList creates a new annotation list component.
func NewAnnotationList(s *styles.Styles) *AnnotationList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &AnnotationList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *AnnotationList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *AnnotationList) Update(msg tea.Msg) (*AnnotationList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.annotations) > 0 {
				l.selected = len(l.annotations) - 1
			}
		}
	}
	return l, nil
}

// View renders the list.
func (l *AnnotationList) View() string {
	if len(l.annotations) == 0 {
		return l.styles.Muted.Render("No annotations yet. Press a to annotate.")
	}

	lines := make([]string, 0, len(l.annotations)+2)
	header := l.styles.Subtitle.Render(fmt.Sprintf("Annotations (%d)", len(l.annotations)))
	lines = append(lines, header, "")

	visible := l.height - 4
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.annotations) {
		end = len(l.annotations)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderAnnotation(i, &l.annotations[i]))
	}

	if len(l.annotations) > visible {
		lines = append(lines, "", l.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(l.annotations))))
	}

	return strings.Join(lines, "\n")
}

// renderAnnotation formats one annotation as "p.N  field  text".
func (l *AnnotationList) renderAnnotation(index int, a *domain.Annotation) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	label := Label(a)
	text := services.DisplayText(*a)
	maxText := l.width - len(label) - 16
	if maxText < 10 {
		maxText = 10
	}
	if runes := []rune(text); len(runes) > maxText {
		text = string(runes[:maxText-3]) + "..."
	}

	page := fmt.Sprintf("p.%-3d", a.Page+1)
	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("%s%s %s  %s", indicator, page, label, text))
	}

	return l.styles.Normal.Render(indicator) +
		l.styles.Muted.Render(page+" ") +
		l.styles.Meta.Render(label) + "  " +
		l.styles.Normal.Render(text)
}

// Label names the field of an annotation, including its line item number
// and multi-page fragment position.
func Label(a *domain.Annotation) string {
	var label string
	switch {
	case !a.IsClassified():
		label = "(unclassified)"
	case a.Type == domain.AnnotationLineItem && a.LineItemNumber != "":
		label = fmt.Sprintf("#%s %s", a.LineItemNumber, a.Field)
	default:
		label = a.Field
	}
	if a.Multipage != nil {
		label += fmt.Sprintf(" [%s %d]", a.Multipage.Type, a.Multipage.Position)
	}
	return label
}

// SetAnnotations replaces the list, keeping the selection in range.
func (l *AnnotationList) SetAnnotations(annotations []domain.Annotation) {
	l.annotations = annotations
	if l.selected >= len(annotations) {
		l.selected = len(annotations) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Annotations returns the current annotations.
func (l *AnnotationList) Annotations() []domain.Annotation {
	return l.annotations
}

// Selected returns the index of the selected annotation.
func (l *AnnotationList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *AnnotationList) SetSelected(index int) {
	if index >= 0 && index < len(l.annotations) {
		l.selected = index
	}
}

// SelectedAnnotation returns the selected annotation, or nil if none.
func (l *AnnotationList) SelectedAnnotation() *domain.Annotation {
	if len(l.annotations) == 0 || l.selected < 0 || l.selected >= len(l.annotations) {
		return nil
	}
	return &l.annotations[l.selected]
}

// MoveUp moves selection up.
func (l *AnnotationList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *AnnotationList) MoveDown() {
	if l.selected < len(l.annotations)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *AnnotationList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of annotations.
func (l *AnnotationList) Count() int {
	return len(l.annotations)
}

// IsEmpty returns whether the list is empty.
func (l *AnnotationList) IsEmpty() bool {
	return len(l.annotations) == 0
}
