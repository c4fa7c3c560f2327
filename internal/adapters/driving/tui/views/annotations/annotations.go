// Package annotations provides the view of the open document's annotations.
package annotations

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// View lists the collection of the open document and drives removal,
// reload and export.
type View struct {
	styles            *styles.Styles
	keymap            *keymap.KeyMap
	annotationService driving.AnnotationService
	exportService     driving.ExportService

	list         *list.AnnotationList
	info         *driving.DocumentInfo
	exportFormat domain.ExportFormat
	confirming   bool
	selectLast   bool
	notice       string
	err          error
	width        int
	height       int
	ready        bool
}

// NewView creates a new annotations view.
func NewView(
	s *styles.Styles,
	annotationService driving.AnnotationService,
	exportService driving.ExportService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:            s,
		keymap:            keymap.DefaultKeyMap(),
		annotationService: annotationService,
		exportService:     exportService,
		list:              list.NewAnnotationList(s),
		exportFormat:      domain.ExportCSV,
	}
}

// Init refreshes the list from the session.
func (v *View) Init() tea.Cmd {
	return v.refresh()
}

// SetDocument records the open document and loads its annotations.
func (v *View) SetDocument(info *driving.DocumentInfo) tea.Cmd {
	v.info = info
	v.err = nil
	v.notice = ""
	v.confirming = false
	return v.refresh()
}

// SetExportFormat sets the format used by the export key.
func (v *View) SetExportFormat(f domain.ExportFormat) {
	v.exportFormat = f
}

// refresh returns a command that reads the collection from the session.
func (v *View) refresh() tea.Cmd {
	return func() tea.Msg {
		if v.annotationService == nil {
			return messages.AnnotationsChanged{Err: fmt.Errorf("annotation service not available")}
		}
		return messages.AnnotationsChanged{Annotations: v.annotationService.Annotations()}
	}
}

// Update handles messages for the annotations view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming {
			return v.handleConfirmKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.AnnotationsChanged:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.list.SetAnnotations(msg.Annotations)
		if v.selectLast {
			v.list.SetSelected(v.list.Count() - 1)
			v.selectLast = false
		}
		if v.info != nil {
			v.info.Annotations = len(msg.Annotations)
		}
		return v, nil

	case messages.AnnotationRemoved:
		v.handleRemoved(msg)
		return v, v.refresh()

	case messages.SelectionResolved:
		if msg.Err != nil {
			v.err = msg.Err
		} else if len(msg.Added) > 0 {
			v.err = nil
			v.notice = fmt.Sprintf("Added %d annotation(s)", len(msg.Added))
			v.selectLast = true
		} else {
			v.notice = "Selection cancelled"
		}
		return v, v.refresh()

	case messages.ExportFinished:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		if msg.Result.Outcome == domain.ExportEmpty {
			v.notice = "Nothing to export"
		} else {
			v.notice = fmt.Sprintf("Exported %d rows to %s", msg.Result.Rows, msg.Result.Path)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up), keymap.Matches(key, v.keymap.Down),
		key == "g", key == "G", key == "home", key == "end":
		v.list, _ = v.list.Update(msg)
	case keymap.Matches(key, v.keymap.Annotate):
		if v.info == nil {
			v.err = domain.ErrNoDocument
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewAnnotate}
		}
	case keymap.Matches(key, v.keymap.Remove):
		if !v.list.IsEmpty() {
			v.confirming = true
		}
	case keymap.Matches(key, v.keymap.Undo):
		if !v.list.IsEmpty() {
			return v, v.removeLast()
		}
	case keymap.Matches(key, v.keymap.Reload):
		return v, v.reload()
	case keymap.Matches(key, v.keymap.Export):
		return v, v.export()
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// handleConfirmKeyMsg handles the remove confirmation prompt.
func (v *View) handleConfirmKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirming = false
	switch msg.String() {
	case "y", "enter":
		return v, v.removeAt(v.list.Selected())
	}
	return v, nil
}

func (v *View) handleRemoved(msg messages.AnnotationRemoved) {
	switch {
	case msg.Err != nil:
		v.err = msg.Err
		v.notice = ""
	case msg.Result == nil:
		v.notice = "Nothing to remove"
	case msg.Result.Partial():
		v.err = fmt.Errorf("%s: %w", msg.Result.Outcome, msg.Result.Err)
		v.notice = ""
	default:
		v.err = nil
		v.notice = fmt.Sprintf("Removed %s", list.Label(&msg.Result.Annotation))
	}
}

// removeAt returns a command that removes the annotation at index.
func (v *View) removeAt(index int) tea.Cmd {
	return func() tea.Msg {
		result, err := v.annotationService.RemoveAt(context.Background(), index)
		return messages.AnnotationRemoved{Result: result, Err: err}
	}
}

// removeLast returns a command that undoes the most recent annotation.
func (v *View) removeLast() tea.Cmd {
	return func() tea.Msg {
		result, err := v.annotationService.RemoveLast(context.Background())
		return messages.AnnotationRemoved{Result: result, Err: err}
	}
}

// reload returns a command that re-reads the collection from the store.
func (v *View) reload() tea.Cmd {
	return func() tea.Msg {
		if err := v.annotationService.Reload(context.Background()); err != nil {
			return messages.AnnotationsChanged{Err: err}
		}
		return messages.AnnotationsChanged{Annotations: v.annotationService.Annotations()}
	}
}

// export returns a command that exports the open document's annotations.
func (v *View) export() tea.Cmd {
	return func() tea.Msg {
		if v.exportService == nil {
			return messages.ExportFinished{Err: fmt.Errorf("export service not available")}
		}
		if v.info == nil {
			return messages.ExportFinished{Err: domain.ErrNoDocument}
		}
		result, err := v.exportService.Export(context.Background(), v.info.FileName, "", v.exportFormat)
		return messages.ExportFinished{Result: result, Err: err}
	}
}

// View renders the annotations view.
func (v *View) View() string {
	var b strings.Builder

	title := "No document open"
	if v.info != nil {
		title = fmt.Sprintf("%s - %d page(s)", v.info.FileName, v.info.PageCount)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	if v.info != nil {
		if meta := describeMetadata(v.info.Metadata); meta != "" {
			b.WriteString(v.styles.Muted.Render(meta))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if v.confirming {
		if a := v.list.SelectedAnnotation(); a != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Remove %s on page %d? [y/N]", list.Label(a), a.Page+1)))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString(v.renderHelp())
	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[a] annotate  [d] remove  [u] undo  [r] reload  [e] export  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
}

// Annotations returns the listed annotations.
func (v *View) Annotations() []domain.Annotation {
	return v.list.Annotations()
}

// SelectedIndex returns the selected collection index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// IsConfirming reports whether the remove prompt is showing.
func (v *View) IsConfirming() bool {
	return v.confirming
}

// Document returns the open document, or nil.
func (v *View) Document() *driving.DocumentInfo {
	return v.info
}

// Notice returns the last informational message.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// describeMetadata joins the present metadata entries.
func describeMetadata(m domain.DocumentMetadata) string {
	var parts []string
	if m.Title != "" {
		parts = append(parts, "Title: "+m.Title)
	}
	if m.Author != "" {
		parts = append(parts, "Author: "+m.Author)
	}
	if m.Subject != "" {
		parts = append(parts, "Subject: "+m.Subject)
	}
	return strings.Join(parts, "  ")
}
