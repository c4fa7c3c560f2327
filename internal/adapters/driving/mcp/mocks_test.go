package mcp

import (
	"context"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	files   []domain.FileSummary
	grouped *domain.GroupedAnnotations
	err     error
}

func (m *mockCatalogService) Files(_ context.Context) ([]domain.FileSummary, error) {
	return m.files, m.err
}

func (m *mockCatalogService) ByFile(_ context.Context, _ string) ([]domain.Annotation, error) {
	return nil, m.err
}

func (m *mockCatalogService) Grouped(_ context.Context, fileName string) (*domain.GroupedAnnotations, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.grouped == nil {
		return &domain.GroupedAnnotations{FileName: fileName}, nil
	}
	return m.grouped, nil
}

// mockExportService is a mock implementation of driving.ExportService.
type mockExportService struct {
	result   *domain.ExportResult
	err      error
	fileName string
	dest     string
	format   domain.ExportFormat
}

func (m *mockExportService) Export(
	_ context.Context,
	fileName, dest string,
	format domain.ExportFormat,
) (*domain.ExportResult, error) {
	m.fileName, m.dest, m.format = fileName, dest, format
	return m.result, m.err
}

func (m *mockExportService) DefaultDestination(fileName string, format domain.ExportFormat) string {
	return fileName + "." + format.Extension()
}

func (m *mockExportService) Formats() []domain.ExportFormat {
	return []domain.ExportFormat{domain.ExportCSV, domain.ExportXLSX, domain.ExportYAML}
}

// mockAnnotationService is a mock implementation of driving.AnnotationService.
// Annotate runs the classifier once and echoes the selection back.
type mockAnnotationService struct {
	openErr  error
	err      error
	opened   string
	closed   bool
	selected domain.Selection
}

func (m *mockAnnotationService) Open(_ context.Context, path string) (*driving.DocumentInfo, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.opened = path
	return &driving.DocumentInfo{FileName: domain.BaseName(path), Path: path, PageCount: 4}, nil
}

func (m *mockAnnotationService) Close() error {
	m.closed = true
	return nil
}

func (m *mockAnnotationService) Info() (*driving.DocumentInfo, error) {
	return nil, domain.ErrNoDocument
}

func (m *mockAnnotationService) Begin(_ context.Context, _ domain.Selection) (*driving.PendingSelection, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockAnnotationService) Resolve(
	_ context.Context,
	_ *driving.PendingSelection,
	_ domain.ClassificationResult,
) ([]domain.Annotation, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockAnnotationService) Annotate(
	ctx context.Context,
	sel domain.Selection,
	classifier driven.Classifier,
) ([]domain.Annotation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.selected = sel

	result, err := classifier.Classify(ctx, domain.ClassificationRequest{
		FileName:           domain.BaseName(m.opened),
		Page:               sel.StartPage,
		Text:               "USD",
		Fragments:          sel.Span(),
		LastLineItemNumber: "7",
	})
	if err != nil || !result.Accepted {
		return nil, err
	}

	a := domain.Annotation{
		ID:       domain.Int64Ptr(1),
		FileName: domain.BaseName(m.opened),
		Page:     sel.StartPage,
		Rect:     sel.StartRect,
		Text:     "USD",
	}
	a.Apply(result.Classification)
	return []domain.Annotation{a}, nil
}

func (m *mockAnnotationService) Annotations() []domain.Annotation {
	return nil
}

func (m *mockAnnotationService) RemoveAt(_ context.Context, _ int) (*driving.RemoveResult, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockAnnotationService) RemoveLast(_ context.Context) (*driving.RemoveResult, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockAnnotationService) RemoveByID(_ context.Context, _ int64) (*driving.RemoveResult, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockAnnotationService) Reload(_ context.Context) error {
	return nil
}

func (m *mockAnnotationService) LastLineItemNumber() string {
	return ""
}

// rfqGrouping is a small grouping shared by tool and resource tests.
func rfqGrouping() *domain.GroupedAnnotations {
	date := "2024-03-15"
	bolt := domain.Annotation{
		ID:             domain.Int64Ptr(4),
		Page:           1,
		Field:          "description",
		Text:           "Bolt",
		Type:           domain.AnnotationLineItem,
		LineItemNumber: "1",
		Multipage:      &domain.Multipage{Position: 1, Type: domain.MultipageStart, GroupID: "g-1"},
	}
	due := domain.Annotation{
		ID:               domain.Int64Ptr(2),
		Field:            "due_date",
		Text:             "15/03/2024",
		Type:             domain.AnnotationMeta,
		StandardizedDate: &date,
	}

	return &domain.GroupedAnnotations{
		FileName: "rfq.pdf",
		Meta: []domain.Annotation{
			{ID: domain.Int64Ptr(1), Field: "currency", Text: "USD", Type: domain.AnnotationMeta},
			due,
		},
		LineItems: []domain.LineItemGroup{
			{Number: "1", Annotations: []domain.Annotation{
				{ID: domain.Int64Ptr(3), Page: 1, Field: "quantity", Text: "5", Type: domain.AnnotationLineItem},
				bolt,
			}},
		},
	}
}
