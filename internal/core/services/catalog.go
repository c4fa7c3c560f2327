package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// displayWidth is the longest display text before truncation.
const displayWidth = 50

// CatalogService provides read-only views over stored annotations.
type CatalogService struct {
	store driven.AnnotationStore
	dates driven.DateNormaliser
	log   *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store driven.AnnotationStore, dates driven.DateNormaliser, log *logger.Logger) *CatalogService {
	return &CatalogService{store: store, dates: dates, log: log}
}

// Files lists every file name with stored annotations.
func (s *CatalogService) Files(ctx context.Context) ([]domain.FileSummary, error) {
	files, err := s.store.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// ByFile returns the stored annotations of a file.
func (s *CatalogService) ByFile(ctx context.Context, fileName string) ([]domain.Annotation, error) {
	rows, err := s.store.QueryByFile(ctx, domain.BaseName(fileName))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", fileName, err)
	}
	return rows, nil
}

// Grouped returns the stored annotations of a file split for display.
func (s *CatalogService) Grouped(ctx context.Context, fileName string) (*domain.GroupedAnnotations, error) {
	rows, err := s.ByFile(ctx, fileName)
	if err != nil {
		return nil, err
	}
	return Group(domain.BaseName(fileName), rows, s.dates, s.log), nil
}

// Group splits annotations into meta, numbered line items and unclassified
// entries. Line item numbers that are integers sort numerically and come
// first; the rest follow in lexical order. Date fields with no stored
// standardized date are normalised for display only; failures are logged
// at info level.
func Group(
	fileName string,
	annotations []domain.Annotation,
	dates driven.DateNormaliser,
	log *logger.Logger,
) *domain.GroupedAnnotations {
	g := &domain.GroupedAnnotations{FileName: fileName}
	items := make(map[string][]domain.Annotation)
	var numbers []string

	for _, a := range annotations {
		if domain.IsDateField(a.Field) && a.StandardizedDate == nil && dates != nil {
			if d, err := dates.Normalise(a.Text); err == nil {
				a.StandardizedDate = &d
			} else {
				log.Info("display: %s %q is not a recognisable date", a.Field, a.Text)
			}
		}

		switch a.Type {
		case domain.AnnotationMeta:
			g.Meta = append(g.Meta, a)
		case domain.AnnotationLineItem:
			if _, ok := items[a.LineItemNumber]; !ok {
				numbers = append(numbers, a.LineItemNumber)
			}
			items[a.LineItemNumber] = append(items[a.LineItemNumber], a)
		default:
			g.Unclassified = append(g.Unclassified, a)
		}
	}

	sort.SliceStable(numbers, func(i, j int) bool {
		return domain.LineItemLess(numbers[i], numbers[j])
	})
	for _, n := range numbers {
		g.LineItems = append(g.LineItems, domain.LineItemGroup{Number: n, Annotations: items[n]})
	}
	return g
}

// DisplayText renders an annotation's text for a list cell: dates show
// their standardized form and long text is truncated with an ellipsis.
func DisplayText(a domain.Annotation) string {
	text := a.Text
	if domain.IsDateField(a.Field) && a.StandardizedDate != nil {
		text = text + " → " + *a.StandardizedDate
	}
	runes := []rune(text)
	if len(runes) > displayWidth {
		return string(runes[:displayWidth-3]) + "..."
	}
	return text
}
