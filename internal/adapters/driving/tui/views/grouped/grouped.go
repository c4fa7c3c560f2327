// Package grouped provides the read-only view of one file's stored
// annotations, grouped into meta fields and line items.
package grouped

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
	"github.com/custodia-labs/pdfmark/internal/core/services"
)

// View shows the grouped annotations of one file.
type View struct {
	styles         *styles.Styles
	catalogService driving.CatalogService

	fileName     string
	grouped      *domain.GroupedAnnotations
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
	loading      bool
	err          error
}

// NewView creates a new grouped view.
func NewView(s *styles.Styles, catalogService driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:         s,
		catalogService: catalogService,
	}
}

// SetFile sets the file and loads its annotations.
func (v *View) SetFile(fileName string) tea.Cmd {
	v.fileName = fileName
	v.grouped = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.load()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// load returns a command that groups the file's annotations.
func (v *View) load() tea.Cmd {
	fileName := v.fileName
	return func() tea.Msg {
		if v.catalogService == nil {
			return messages.GroupedLoaded{Err: fmt.Errorf("catalog service not available")}
		}
		g, err := v.catalogService.Grouped(context.Background(), fileName)
		return messages.GroupedLoaded{Grouped: g, Err: err}
	}
}

// Update handles messages for the grouped view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.GroupedLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.grouped = msg.Grouped
		v.lines = v.layout()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewFiles}
		}
	}

	return v, nil
}

// layout renders the grouping into display lines.
func (v *View) layout() []string {
	if v.grouped == nil || v.grouped.Len() == 0 {
		return nil
	}

	var lines []string
	row := func(a *domain.Annotation, field string) string {
		return fmt.Sprintf("    %-26s %s  %s",
			field,
			v.styles.Muted.Render(fmt.Sprintf("p.%d", a.Page+1)),
			services.DisplayText(*a))
	}

	if len(v.grouped.Meta) > 0 {
		lines = append(lines, v.styles.Subtitle.Render("Meta"))
		for i := range v.grouped.Meta {
			a := &v.grouped.Meta[i]
			lines = append(lines, row(a, a.Field))
		}
		lines = append(lines, "")
	}

	for _, item := range v.grouped.LineItems {
		lines = append(lines, v.styles.LineItem.Render(fmt.Sprintf("Line item %s", item.Number)))
		for i := range item.Annotations {
			a := &item.Annotations[i]
			lines = append(lines, row(a, a.Field))
		}
		lines = append(lines, "")
	}

	if len(v.grouped.Unclassified) > 0 {
		lines = append(lines, v.styles.Warning.Render("Unclassified"))
		for i := range v.grouped.Unclassified {
			a := &v.grouped.Unclassified[i]
			lines = append(lines, row(a, list.Label(a)))
		}
	}

	return lines
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the grouped view.
func (v *View) View() string {
	var b strings.Builder

	title := v.fileName
	if v.grouped != nil {
		title = fmt.Sprintf("%s (%d)", v.fileName, v.grouped.Len())
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 10)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading annotations..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No annotations)"))
	default:
		visible := v.visibleLines()
		end := min(v.scrollOffset+visible, len(v.lines))
		b.WriteString(strings.Join(v.lines[v.scrollOffset:end], "\n"))
		if len(v.lines) > visible {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d", v.scrollOffset+1, end, len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// FileName returns the file being shown.
func (v *View) FileName() string {
	return v.fileName
}

// Lines returns the rendered display lines.
func (v *View) Lines() []string {
	return v.lines
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
