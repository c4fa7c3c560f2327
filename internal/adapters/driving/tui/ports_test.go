package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/tuitest"
)

func TestNewPorts(t *testing.T) {
	annotation := &tuitest.AnnotationService{}
	catalog := &tuitest.CatalogService{}
	export := &tuitest.ExportService{}
	settings := &tuitest.SettingsService{}

	ports := NewPorts(annotation, catalog, export, settings)

	require.NotNil(t, ports)
	assert.Equal(t, annotation, ports.Annotation)
	assert.Equal(t, catalog, ports.Catalog)
	assert.Equal(t, export, ports.Export)
	assert.Equal(t, settings, ports.Settings)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingAnnotation(t *testing.T) {
	ports := &Ports{Catalog: &tuitest.CatalogService{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingAnnotationService)
}

func TestPorts_Validate_MissingCatalog(t *testing.T) {
	ports := &Ports{Annotation: &tuitest.AnnotationService{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingCatalogService)
}

func TestPorts_Validate_OptionalServices(t *testing.T) {
	ports := &Ports{
		Annotation: &tuitest.AnnotationService{},
		Catalog:    &tuitest.CatalogService{},
	}

	assert.NoError(t, ports.Validate())
}
