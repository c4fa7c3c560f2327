// Package tui provides an interactive terminal user interface for pdfmark.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Annotation drives the open document session.
	Annotation driving.AnnotationService

	// Catalog lists stored annotations across files.
	Catalog driving.CatalogService

	// Export writes the open document's annotations to a file.
	Export driving.ExportService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	annotation driving.AnnotationService,
	catalog driving.CatalogService,
	export driving.ExportService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Annotation: annotation,
		Catalog:    catalog,
		Export:     export,
		Settings:   settings,
	}
}

// Validate ensures all required ports are set.
// Export and Settings are optional; their views degrade without them.
func (p *Ports) Validate() error {
	if p.Annotation == nil {
		return ErrMissingAnnotationService
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
