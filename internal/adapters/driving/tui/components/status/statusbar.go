// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateBusy    State = "busy"
	StatePending State = "pending"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Bar displays the open document, application status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	fileName string
	count    int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the document, count and state.
func (s *Bar) renderLeft() string {
	var doc string
	if s.fileName != "" {
		doc = s.styles.Normal.Render(fmt.Sprintf("%s (%d)", s.fileName, s.count)) + "  "
	}

	switch s.state {
	case StateBusy:
		return doc + s.styles.Muted.Render("Working...")
	case StatePending:
		return doc + s.styles.Warning.Render("Classify selection")
	case StateError:
		if s.message != "" {
			return doc + s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return doc + s.styles.Error.Render("Error")
	case StateHelp:
		return doc + s.styles.Normal.Render("Help")
	case StateReady:
		if s.message != "" {
			return doc + s.styles.Success.Render(s.message)
		}
	}
	return doc + s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding

	switch {
	case s.state == StatePending:
		bindings = s.keymap.ClassifyHelp()
	case s.fileName != "" && s.state != StateHelp:
		bindings = s.keymap.AnnotationsHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDocument sets the open document and its annotation count.
func (s *Bar) SetDocument(fileName string, count int) {
	s.fileName = fileName
	s.count = count
}

// FileName returns the open document name.
func (s *Bar) FileName() string {
	return s.fileName
}

// Count returns the annotation count shown.
func (s *Bar) Count() int {
	return s.count
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the state and message, keeping the document.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
