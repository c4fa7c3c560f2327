package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

var rfq = &driving.DocumentInfo{FileName: "rfq.pdf", Path: "/tmp/rfq.pdf", PageCount: 3}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enter(t *testing.T, v *View) messages.ViewType {
	t.Helper()
	_, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	return changed.View
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Len(t, v.items, 5)
	assert.Nil(t, v.Init())
	// Annotations needs a document, so the cursor starts on the catalog.
	assert.Equal(t, 1, v.Selected())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil)

	updated, cmd := v.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Same(t, v, updated)
	assert.Nil(t, cmd)
	assert.True(t, v.ready)
	assert.Equal(t, 100, v.width)
	assert.Equal(t, 50, v.height)
}

func TestView_NoDocument(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(80, 24)

	out := v.View()
	assert.Contains(t, out, "No document open")
	assert.Contains(t, out, "Annotations (no document)")

	// The cursor cannot reach the annotations entry.
	v.Update(key("up"))
	assert.Equal(t, 1, v.Selected())
	v.selected = 0
	_, cmd := v.Update(key("enter"))
	assert.Nil(t, cmd)
}

func TestView_ShowsDocument(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(80, 24)

	v.SetDocument(rfq, 7)

	out := v.View()
	assert.Contains(t, out, "rfq.pdf - 3 page(s)")
	assert.Contains(t, out, "Annotations (7)")
	assert.NotContains(t, out, "No document open")

	v.Update(key("k"))
	assert.Equal(t, 0, v.Selected())
	assert.Equal(t, messages.ViewAnnotations, enter(t, v))

	v.SetDocument(rfq, 8)
	assert.Contains(t, v.View(), "Annotations (8)")
}

func TestView_ClearDocumentMovesCursor(t *testing.T) {
	v := NewView(nil)
	v.SetDocument(rfq, 1)
	v.selected = 0

	v.SetDocument(nil, 0)

	assert.Equal(t, 1, v.Selected())
}

func TestView_Navigate(t *testing.T) {
	v := NewView(nil)
	v.SetDocument(rfq, 0)
	v.selected = 0

	for want := 1; want <= 4; want++ {
		v.Update(key("j"))
		assert.Equal(t, want, v.Selected())
	}
	v.Update(key("down"))
	assert.Equal(t, 4, v.Selected(), "stops at the last item")

	v.Update(key("up"))
	assert.Equal(t, 3, v.Selected())
}

func TestView_EnterRoutes(t *testing.T) {
	tests := []struct {
		index int
		want  messages.ViewType
	}{
		{1, messages.ViewFiles},
		{2, messages.ViewSettings},
		{3, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			v := NewView(nil)
			v.selected = tt.index
			assert.Equal(t, tt.want, enter(t, v))
		})
	}
}

func TestView_Quit(t *testing.T) {
	v := NewView(nil)
	v.selected = 4
	_, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = NewView(nil).Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_NotReady(t *testing.T) {
	assert.Contains(t, NewView(nil).View(), "Initialising")
}
