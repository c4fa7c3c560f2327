package mcp

import (
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog answers read-only questions about stored annotations.
	Catalog driving.CatalogService

	// Export writes annotations to tabular files.
	Export driving.ExportService

	// Annotation captures new annotations on a document.
	Annotation driving.AnnotationService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	// Export and Annotation are optional; their tools are skipped when nil.
	return nil
}
