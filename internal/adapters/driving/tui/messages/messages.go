// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAnnotations lists the annotations of the open document.
	ViewAnnotations
	// ViewAnnotate captures and classifies a new selection.
	ViewAnnotate
	// ViewFiles lists every file with stored annotations.
	ViewFiles
	// ViewGrouped shows the stored annotations of one file.
	ViewGrouped
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAnnotations:
		return "annotations"
	case ViewAnnotate:
		return "annotate"
	case ViewFiles:
		return "files"
	case ViewGrouped:
		return "grouped"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentOpened carries the result of opening a PDF.
type DocumentOpened struct {
	Info *driving.DocumentInfo
	Err  error
}

// DocumentChanged signals the open PDF was modified on disk.
type DocumentChanged struct {
	Path string
}

// AnnotationsChanged carries the collection after a mutation or reload.
type AnnotationsChanged struct {
	Annotations []domain.Annotation
	Err         error
}

// SelectionBegun carries a selection awaiting classification.
type SelectionBegun struct {
	Pending *driving.PendingSelection
	Err     error
}

// SelectionResolved reports the annotations committed for a selection.
// Added is empty when the selection was cancelled.
type SelectionResolved struct {
	Added []domain.Annotation
	Err   error
}

// AnnotationRemoved reports a removal and its outcome.
type AnnotationRemoved struct {
	Result *driving.RemoveResult
	Err    error
}

// ExportFinished reports the outcome of an export.
type ExportFinished struct {
	Result *domain.ExportResult
	Err    error
}

// FilesLoaded carries the annotated files from the catalog.
type FilesLoaded struct {
	Files []domain.FileSummary
	Err   error
}

// FileSelected signals a file was picked from the files list.
type FileSelected struct {
	FileName string
}

// GroupedLoaded carries the grouped annotations of one file.
type GroupedLoaded struct {
	Grouped *domain.GroupedAnnotations
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
