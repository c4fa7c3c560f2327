// Package files provides the annotated files list view for the TUI.
package files

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// View lists every file with stored annotations.
type View struct {
	styles         *styles.Styles
	catalogService driving.CatalogService

	files        []domain.FileSummary
	selected     int
	scrollOffset int
	width        int
	height       int
	ready        bool
	loading      bool
	err          error
}

// NewView creates a new files view.
func NewView(s *styles.Styles, catalogService driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:         s,
		catalogService: catalogService,
		files:          []domain.FileSummary{},
	}
}

// Init loads the files.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadFiles()
}

// loadFiles returns a command that lists annotated files.
func (v *View) loadFiles() tea.Cmd {
	return func() tea.Msg {
		if v.catalogService == nil {
			return messages.FilesLoaded{Err: fmt.Errorf("catalog service not available")}
		}
		files, err := v.catalogService.Files(context.Background())
		return messages.FilesLoaded{Files: files, Err: err}
	}
}

// Update handles messages for the files view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FilesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.files = msg.Files
		v.err = nil
		if v.selected >= len(v.files) {
			v.selected = 0
			v.scrollOffset = 0
		}
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
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.files)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if v.selected < len(v.files) {
			name := v.files[v.selected].FileName
			return v, func() tea.Msg {
				return messages.FileSelected{FileName: name}
			}
		}
	case "r":
		v.loading = true
		return v, v.loadFiles()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, header, help, and padding
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the files view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Annotated files (%d)", len(v.files))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading files..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.files) == 0:
		b.WriteString(v.styles.Muted.Render("No annotations stored yet."))
	default:
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %-40s %12s %6s", "FILE", "ANNOTATIONS", "PAGES")))
		b.WriteString("\n")
		visibleItems := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.files) && i < v.scrollOffset+visibleItems; i++ {
			b.WriteString(v.renderFile(i, &v.files[i]))
			b.WriteString("\n")
		}
		if len(v.files) > visibleItems {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visibleItems, len(v.files)),
				len(v.files))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] view  [r] reload  [esc] back"))
	return b.String()
}

// renderFile renders one file row.
func (v *View) renderFile(index int, f *domain.FileSummary) string {
	name := f.FileName
	if runes := []rune(name); len(runes) > 40 {
		name = string(runes[:37]) + "..."
	}
	line := fmt.Sprintf("%-40s %12d %6d", name, f.Annotations, f.Pages)
	if index == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	return v.styles.Normal.Render("  " + line)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Files returns the listed files.
func (v *View) Files() []domain.FileSummary {
	return v.files
}

// SelectedIndex returns the selected row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
