// Package tuitest provides function-field fakes of the driving ports for
// TUI view tests. A nil function returns zero values.
package tuitest

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// Ensure fakes implement the interfaces.
var (
	_ driving.AnnotationService = (*AnnotationService)(nil)
	_ driving.CatalogService    = (*CatalogService)(nil)
	_ driving.ExportService     = (*ExportService)(nil)
	_ driving.SettingsService   = (*SettingsService)(nil)
)

// AnnotationService fakes driving.AnnotationService.
type AnnotationService struct {
	OpenFunc        func(ctx context.Context, path string) (*driving.DocumentInfo, error)
	InfoFunc        func() (*driving.DocumentInfo, error)
	BeginFunc       func(ctx context.Context, sel domain.Selection) (*driving.PendingSelection, error)
	ResolveFunc     func(ctx context.Context, p *driving.PendingSelection, r domain.ClassificationResult) ([]domain.Annotation, error)
	RemoveAtFunc    func(ctx context.Context, index int) (*driving.RemoveResult, error)
	RemoveLastFunc  func(ctx context.Context) (*driving.RemoveResult, error)
	RemoveByIDFunc  func(ctx context.Context, id int64) (*driving.RemoveResult, error)
	ReloadFunc      func(ctx context.Context) error
	AnnotationsList []domain.Annotation
	LastLineItem    string
	Closed          bool
}

func (m *AnnotationService) Open(ctx context.Context, path string) (*driving.DocumentInfo, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	return &driving.DocumentInfo{FileName: domain.BaseName(path), Path: path, PageCount: 1}, nil
}

func (m *AnnotationService) Close() error {
	m.Closed = true
	return nil
}

func (m *AnnotationService) Info() (*driving.DocumentInfo, error) {
	if m.InfoFunc != nil {
		return m.InfoFunc()
	}
	return nil, domain.ErrNoDocument
}

func (m *AnnotationService) Begin(ctx context.Context, sel domain.Selection) (*driving.PendingSelection, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, sel)
	}
	return &driving.PendingSelection{}, nil
}

func (m *AnnotationService) Resolve(
	ctx context.Context,
	p *driving.PendingSelection,
	r domain.ClassificationResult,
) ([]domain.Annotation, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, p, r)
	}
	return nil, nil
}

func (m *AnnotationService) Annotate(
	ctx context.Context,
	sel domain.Selection,
	c driven.Classifier,
) ([]domain.Annotation, error) {
	pending, err := m.Begin(ctx, sel)
	if err != nil {
		return nil, err
	}
	result, err := c.Classify(ctx, pending.Request)
	if err != nil {
		return nil, err
	}
	return m.Resolve(ctx, pending, result)
}

func (m *AnnotationService) Annotations() []domain.Annotation {
	return m.AnnotationsList
}

func (m *AnnotationService) RemoveAt(ctx context.Context, index int) (*driving.RemoveResult, error) {
	if m.RemoveAtFunc != nil {
		return m.RemoveAtFunc(ctx, index)
	}
	return nil, nil
}

func (m *AnnotationService) RemoveLast(ctx context.Context) (*driving.RemoveResult, error) {
	if m.RemoveLastFunc != nil {
		return m.RemoveLastFunc(ctx)
	}
	return nil, nil
}

func (m *AnnotationService) RemoveByID(ctx context.Context, id int64) (*driving.RemoveResult, error) {
	if m.RemoveByIDFunc != nil {
		return m.RemoveByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *AnnotationService) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return nil
}

func (m *AnnotationService) LastLineItemNumber() string {
	return m.LastLineItem
}

// CatalogService fakes driving.CatalogService.
type CatalogService struct {
	FilesFunc   func(ctx context.Context) ([]domain.FileSummary, error)
	ByFileFunc  func(ctx context.Context, fileName string) ([]domain.Annotation, error)
	GroupedFunc func(ctx context.Context, fileName string) (*domain.GroupedAnnotations, error)
}

func (m *CatalogService) Files(ctx context.Context) ([]domain.FileSummary, error) {
	if m.FilesFunc != nil {
		return m.FilesFunc(ctx)
	}
	return []domain.FileSummary{}, nil
}

func (m *CatalogService) ByFile(ctx context.Context, fileName string) ([]domain.Annotation, error) {
	if m.ByFileFunc != nil {
		return m.ByFileFunc(ctx, fileName)
	}
	return nil, nil
}

func (m *CatalogService) Grouped(ctx context.Context, fileName string) (*domain.GroupedAnnotations, error) {
	if m.GroupedFunc != nil {
		return m.GroupedFunc(ctx, fileName)
	}
	return &domain.GroupedAnnotations{FileName: fileName}, nil
}

// ExportService fakes driving.ExportService.
type ExportService struct {
	ExportFunc func(ctx context.Context, fileName, dest string, format domain.ExportFormat) (*domain.ExportResult, error)
}

func (m *ExportService) Export(
	ctx context.Context,
	fileName, dest string,
	format domain.ExportFormat,
) (*domain.ExportResult, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, fileName, dest, format)
	}
	return &domain.ExportResult{Outcome: domain.ExportEmpty, Format: format}, nil
}

func (m *ExportService) DefaultDestination(fileName string, format domain.ExportFormat) string {
	return fileName + "." + format.Extension()
}

func (m *ExportService) Formats() []domain.ExportFormat {
	return []domain.ExportFormat{domain.ExportCSV, domain.ExportXLSX, domain.ExportYAML}
}

// SettingsService fakes driving.SettingsService.
type SettingsService struct {
	GetFunc func() (*domain.AppSettings, error)
	SetFunc func(key, value string) error
	Saved   *domain.AppSettings
}

func (m *SettingsService) Get() (*domain.AppSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *SettingsService) Save(settings *domain.AppSettings) error {
	m.Saved = settings
	return nil
}

func (m *SettingsService) Set(key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(key, value)
	}
	return nil
}

func (m *SettingsService) Keys() []string {
	return []string{
		"store.backend", "store.data_dir", "store.postgres_dsn",
		"render.dpi", "render.highlight_color",
		"export.format", "export.dir",
		"log.dir", "log.verbose",
	}
}

func (m *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
