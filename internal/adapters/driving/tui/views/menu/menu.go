// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// Item is a menu entry.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool

	// NeedsDocument items are skipped until a PDF is open.
	NeedsDocument bool
}

// View is the start screen. It summarises the open document and routes
// to the other views.
type View struct {
	styles *styles.Styles
	items  []Item

	// doc is nil until a PDF is opened.
	doc         *driving.DocumentInfo
	annotations int

	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles: s,
		items: []Item{
			{Label: "Annotations", View: messages.ViewAnnotations, NeedsDocument: true},
			{Label: "Annotated files", View: messages.ViewFiles},
			{Label: "Settings", View: messages.ViewSettings},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
	v.selected = v.next(-1, 1)
	return v
}

// SetDocument records the open document and its annotation count.
// A nil info clears it.
func (v *View) SetDocument(info *driving.DocumentInfo, annotations int) {
	v.doc = info
	v.annotations = annotations
	if info == nil && !v.enabled(v.selected) {
		v.selected = v.next(v.selected, 1)
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.selected = v.next(v.selected, -1)
			return v, nil

		case "down", "j":
			v.selected = v.next(v.selected, 1)
			return v, nil

		case "enter":
			if !v.enabled(v.selected) {
				return v, nil
			}
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// enabled reports whether item i can be chosen with the current document.
func (v *View) enabled(i int) bool {
	return !v.items[i].NeedsDocument || v.doc != nil
}

// next returns the nearest enabled item from i in direction dir, or i
// itself when there is none.
func (v *View) next(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(v.items); j += dir {
		if v.enabled(j) {
			return j
		}
	}
	return i
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("pdfmark"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(v.documentLine()))
	b.WriteString("\n\n")

	for i, item := range v.items {
		cursor := "  "
		style := v.styles.Normal
		switch {
		case !v.enabled(i):
			style = v.styles.Muted
		case i == v.selected:
			cursor = "> "
			style = v.styles.Selected
		}
		b.WriteString(cursor + style.Render(v.label(item)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

func (v *View) documentLine() string {
	if v.doc == nil {
		return "No document open. Start with: pdfmark tui <file.pdf>"
	}
	return fmt.Sprintf("%s - %d page(s)", v.doc.FileName, v.doc.PageCount)
}

func (v *View) label(item Item) string {
	if !item.NeedsDocument {
		return item.Label
	}
	if v.doc == nil {
		return item.Label + " (no document)"
	}
	return fmt.Sprintf("%s (%d)", item.Label, v.annotations)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
