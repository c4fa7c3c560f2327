package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

func newTestApp(t *testing.T) (*App, *tuitest.AnnotationService) {
	t.Helper()

	annotation := &tuitest.AnnotationService{}
	app, err := NewApp(&Ports{
		Annotation: annotation,
		Catalog:    &tuitest.CatalogService{},
		Export:     &tuitest.ExportService{},
		Settings:   &tuitest.SettingsService{},
	})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, annotation
}

func openTestDocument(t *testing.T, app *App) {
	t.Helper()

	msg := app.OpenDocument("/tmp/rfq.pdf")()
	opened, ok := msg.(messages.DocumentOpened)
	require.True(t, ok)
	require.NoError(t, opened.Err)
	app.Update(opened)
}

func TestNewApp_Success(t *testing.T) {
	app, _ := newTestApp(t)

	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Nil(t, app.Document())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Catalog: &tuitest.CatalogService{}})

	assert.ErrorIs(t, err, ErrMissingAnnotationService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	result := app.WithContext(ctx)

	assert.Same(t, app, result)
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app.Init())
	assert.NotNil(t, app.WithDocument("/tmp/rfq.pdf").Init())
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(&Ports{
		Annotation: &tuitest.AnnotationService{},
		Catalog:    &tuitest.CatalogService{},
	})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
	assert.False(t, app.Ready())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.StatusBar().Width())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_DocumentOpened_SwitchesToAnnotations(t *testing.T) {
	app, annotation := newTestApp(t)
	annotation.AnnotationsList = []domain.Annotation{{FileName: "rfq.pdf", Text: "EUR"}}

	msg := app.OpenDocument("/tmp/rfq.pdf")()
	_, cmd := app.Update(msg)

	assert.Equal(t, messages.ViewAnnotations, app.CurrentView())
	require.NotNil(t, app.Document())
	assert.Equal(t, "rfq.pdf", app.Document().FileName)
	assert.Equal(t, "rfq.pdf", app.StatusBar().FileName())

	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, 1, app.StatusBar().Count())
	assert.Contains(t, app.View(), "EUR")
}

func TestApp_MenuTracksDocument(t *testing.T) {
	app, annotation := newTestApp(t)
	assert.Contains(t, app.menuView.View(), "No document open")

	annotation.AnnotationsList = []domain.Annotation{
		{FileName: "rfq.pdf", Text: "EUR", Field: "currency"},
		{FileName: "rfq.pdf", Text: "2024-05-01", Field: "rfq_date"},
	}
	msg := app.OpenDocument("/tmp/rfq.pdf")()
	_, cmd := app.Update(msg)
	require.NotNil(t, cmd)
	app.Update(cmd())

	app.Update(messages.ViewChanged{View: messages.ViewMenu})
	out := app.View()
	assert.Contains(t, out, "rfq.pdf - 1 page(s)")
	assert.Contains(t, out, "Annotations (2)")
}

func TestApp_DocumentOpened_Error(t *testing.T) {
	app, annotation := newTestApp(t)
	annotation.OpenFunc = func(context.Context, string) (*driving.DocumentInfo, error) {
		return nil, domain.ErrNotFound
	}

	app.Update(app.OpenDocument("/tmp/broken.pdf")())

	assert.ErrorIs(t, app.Err(), domain.ErrNotFound)
	assert.Equal(t, status.StateError, app.StatusBar().State())
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_DocumentChanged_Reopens(t *testing.T) {
	app, annotation := newTestApp(t)
	openTestDocument(t, app)

	var reopened string
	annotation.OpenFunc = func(_ context.Context, path string) (*driving.DocumentInfo, error) {
		reopened = path
		return &driving.DocumentInfo{FileName: "rfq.pdf", Path: path, PageCount: 2}, nil
	}

	_, cmd := app.Update(messages.DocumentChanged{Path: "/tmp/rfq.pdf"})

	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, "/tmp/rfq.pdf", reopened)
	assert.Equal(t, 2, app.Document().PageCount)
}

func TestApp_DocumentChanged_DeferredWhilePending(t *testing.T) {
	app, _ := newTestApp(t)
	openTestDocument(t, app)
	app.Update(messages.ViewChanged{View: messages.ViewAnnotate})

	app.Update(messages.SelectionBegun{Pending: &driving.PendingSelection{
		Fragments: []domain.Annotation{{Page: 0, Text: "Bolt"}},
	}})
	require.NotNil(t, app.annotateView.Pending())

	_, cmd := app.Update(messages.DocumentChanged{Path: "/tmp/rfq.pdf"})

	assert.Nil(t, cmd)
	assert.Contains(t, app.StatusBar().Message(), "finish the selection")
}

func TestApp_SelectionLifecycle(t *testing.T) {
	app, annotation := newTestApp(t)
	openTestDocument(t, app)

	app.Update(messages.ViewChanged{View: messages.ViewAnnotate})
	assert.Equal(t, messages.ViewAnnotate, app.CurrentView())

	app.Update(messages.SelectionBegun{Pending: &driving.PendingSelection{
		Fragments: []domain.Annotation{{Page: 0, Text: "Bolt M8"}},
	}})
	assert.Equal(t, status.StatePending, app.StatusBar().State())

	added := []domain.Annotation{{FileName: "rfq.pdf", Text: "Bolt M8", Field: "description"}}
	annotation.AnnotationsList = added
	_, cmd := app.Update(messages.SelectionResolved{Added: added})

	assert.Equal(t, messages.ViewAnnotations, app.CurrentView())
	assert.Nil(t, app.annotateView.Pending())
	assert.Equal(t, status.StateReady, app.StatusBar().State())
	require.NotNil(t, cmd)

	app.Update(cmd())
	assert.Len(t, app.annotationsView.Annotations(), 1)
	assert.Equal(t, 1, app.StatusBar().Count())
}

func TestApp_SelectionResolved_ErrorStaysOnAnnotate(t *testing.T) {
	app, _ := newTestApp(t)
	openTestDocument(t, app)
	app.Update(messages.ViewChanged{View: messages.ViewAnnotate})

	app.Update(messages.SelectionResolved{Err: domain.ErrStaleSelection})

	assert.Equal(t, messages.ViewAnnotate, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrStaleSelection)
}

func TestApp_FileSelected_ShowsGrouped(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.FileSelected{FileName: "rfq.pdf"})

	assert.Equal(t, messages.ViewGrouped, app.CurrentView())
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, "rfq.pdf", app.groupedView.FileName())
}

func TestApp_ViewChanged_Files(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewFiles})

	assert.Equal(t, messages.ViewFiles, app.CurrentView())
	require.NotNil(t, cmd)
	_, ok := cmd().(messages.FilesLoaded)
	assert.True(t, ok)
}

func TestApp_SettingsLoaded_SetsExportFormat(t *testing.T) {
	app, _ := newTestApp(t)
	settings := domain.DefaultAppSettings()
	settings.Export.Format = domain.ExportYAML

	app.Update(messages.SettingsLoaded{Settings: &settings})

	assert.Equal(t, &settings, app.settingsView.Settings())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)
	testErr := errors.New("boom")

	app.Update(messages.ErrorOccurred{Err: testErr})

	assert.Equal(t, testErr, app.Err())
	assert.Equal(t, "boom", app.StatusBar().Message())
}

func TestApp_HelpView(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Annotate a new selection")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_View_RendersEachView(t *testing.T) {
	app, _ := newTestApp(t)

	views := []messages.ViewType{
		messages.ViewMenu,
		messages.ViewAnnotations,
		messages.ViewAnnotate,
		messages.ViewFiles,
		messages.ViewGrouped,
		messages.ViewSettings,
		messages.ViewHelp,
	}
	for _, v := range views {
		t.Run(v.String(), func(t *testing.T) {
			app.currentView = v
			assert.NotEmpty(t, app.View())
		})
	}
}
