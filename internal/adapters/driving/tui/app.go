package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/views/annotate"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/views/annotations"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/views/files"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/views/grouped"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// statusBar shows the open document and key hints.
	statusBar *status.Bar

	// menuView is the main navigation menu.
	menuView *menu.View

	// annotationsView lists the annotations of the open document.
	annotationsView *annotations.View

	// annotateView captures and classifies a new selection.
	annotateView *annotate.View

	// filesView lists every annotated file in the store.
	filesView *files.View

	// groupedView shows the stored annotations of one file.
	groupedView *grouped.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// path is the PDF opened on start, if any.
	path string

	// info describes the open document.
	info *driving.DocumentInfo

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:           ports,
		ctx:             context.Background(),
		styles:          s,
		statusBar:       status.NewBar(s, keymap.DefaultKeyMap()),
		menuView:        menu.NewView(s),
		annotationsView: annotations.NewView(s, ports.Annotation, ports.Export),
		annotateView:    annotate.NewView(s, ports.Annotation),
		filesView:       files.NewView(s, ports.Catalog),
		groupedView:     grouped.NewView(s, ports.Catalog),
		settingsView:    settings.NewView(s, ports.Settings),
		currentView:     messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithDocument opens the PDF at path when the program starts.
func (a *App) WithDocument(path string) *App {
	a.path = path
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("pdfmark"),
	}
	if a.ports.Settings != nil {
		cmds = append(cmds, a.settingsView.Init())
	}
	if a.path != "" {
		cmds = append(cmds, a.OpenDocument(a.path))
	}
	return tea.Batch(cmds...)
}

// OpenDocument returns a command that opens the PDF at path.
func (a *App) OpenDocument(path string) tea.Cmd {
	ctx := a.ctx
	service := a.ports.Annotation
	return func() tea.Msg {
		info, err := service.Open(ctx, path)
		return messages.DocumentOpened{Info: info, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		a.syncStatus()
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewAnnotations:
			return a, a.annotationsView.Init()
		case messages.ViewAnnotate:
			a.annotateView.Reset()
			return a, a.annotateView.Init()
		case messages.ViewFiles:
			return a, a.filesView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp, messages.ViewGrouped:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.DocumentOpened:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.info = msg.Info
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("")
		a.statusBar.SetDocument(msg.Info.FileName, msg.Info.Annotations)
		a.menuView.SetDocument(msg.Info, msg.Info.Annotations)
		a.currentView = messages.ViewAnnotations
		return a, a.annotationsView.SetDocument(msg.Info)

	case messages.DocumentChanged:
		if a.annotateView.Pending() != nil {
			a.statusBar.SetMessage("Document changed on disk; finish the selection to reload")
			return a, nil
		}
		path := msg.Path
		if a.info != nil {
			path = a.info.Path
		}
		if path == "" {
			return a, nil
		}
		a.statusBar.SetMessage("Document changed on disk, reopening")
		return a, a.OpenDocument(path)

	case messages.SelectionBegun:
		a.annotateView, cmd = a.annotateView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.statusBar.SetState(status.StatePending)
			a.statusBar.SetMessage("")
		}
		return a, cmd

	case messages.SelectionResolved:
		a.annotateView, _ = a.annotateView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.annotateView.Reset()
		a.statusBar.SetState(status.StateReady)
		a.currentView = messages.ViewAnnotations
		a.annotationsView, cmd = a.annotationsView.Update(msg)
		a.syncStatus()
		return a, cmd

	case messages.AnnotationsChanged, messages.AnnotationRemoved, messages.ExportFinished:
		a.annotationsView, cmd = a.annotationsView.Update(msg)
		a.syncStatus()
		return a, cmd

	case messages.FilesLoaded:
		a.filesView, cmd = a.filesView.Update(msg)
		return a, cmd

	case messages.FileSelected:
		a.currentView = messages.ViewGrouped
		return a, a.groupedView.SetFile(msg.FileName)

	case messages.GroupedLoaded:
		a.groupedView, cmd = a.groupedView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		if msg.Err == nil && msg.Settings != nil {
			a.annotationsView.SetExportFormat(msg.Settings.Export.Format)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a.updateCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	return a.updateCurrent(msg)
}

// updateCurrent forwards a message to the active view.
func (a *App) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAnnotations:
		a.annotationsView, cmd = a.annotationsView.Update(msg)
	case messages.ViewAnnotate:
		a.annotateView, cmd = a.annotateView.Update(msg)
	case messages.ViewFiles:
		a.filesView, cmd = a.filesView.Update(msg)
	case messages.ViewGrouped:
		a.groupedView, cmd = a.groupedView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Esc from help goes to menu
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
			a.syncStatus()
		}
	}
	return a, cmd
}

// setError records err and shows it in the status bar.
func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// syncStatus refreshes the status bar from the open document.
func (a *App) syncStatus() {
	switch {
	case a.currentView == messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	case a.annotateView.Pending() != nil:
		a.statusBar.SetState(status.StatePending)
	case a.err == nil:
		a.statusBar.SetState(status.StateReady)
	}
	if a.info != nil {
		n := len(a.annotationsView.Annotations())
		a.statusBar.SetDocument(a.info.FileName, n)
		a.menuView.SetDocument(a.info, n)
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewMenu:
		body = a.menuView.View()
	case messages.ViewAnnotations:
		body = a.annotationsView.View()
	case messages.ViewAnnotate:
		body = a.annotateView.View()
	case messages.ViewFiles:
		body = a.filesView.View()
	case messages.ViewGrouped:
		body = a.groupedView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	return strings.TrimRight(body, "\n") + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Annotations:
  a           Annotate a new selection
  d           Remove the selected annotation
  u           Undo the last annotation
  r           Reload from the store
  e           Export to the configured format

Annotate:
  tab         Next field / toggle meta and line item
  ↑/↓         Choose the field
  enter       Extract selection / accept classification
  esc         Cancel the pending selection

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	_, err := a.NewProgram().Run()
	return err
}

// NewProgram wraps the app in a Bubbletea program. Callers that need to
// send messages from outside the event loop keep the returned program.
func (a *App) NewProgram() *tea.Program {
	return tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Document returns the open document, or nil.
func (a *App) Document() *driving.DocumentInfo {
	return a.info
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions. Views get the height left
// over by the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := max(height-2, 1)
	a.statusBar.SetWidth(width)
	a.menuView.SetDimensions(width, body)
	a.annotationsView.SetDimensions(width, body)
	a.annotateView.SetDimensions(width, body)
	a.filesView.SetDimensions(width, body)
	a.groupedView.SetDimensions(width, body)
	a.settingsView.SetDimensions(width, body)
}
