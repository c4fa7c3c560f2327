package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService writes stored annotations through the registered exporters.
type ExportService struct {
	store     driven.AnnotationStore
	exporters map[domain.ExportFormat]driven.Exporter
	dir       string
	log       *logger.Logger
}

// NewExportService creates an export service writing default destinations
// under dir.
func NewExportService(
	store driven.AnnotationStore,
	dir string,
	log *logger.Logger,
	exporters ...driven.Exporter,
) *ExportService {
	byFormat := make(map[domain.ExportFormat]driven.Exporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	return &ExportService{
		store:     store,
		exporters: byFormat,
		dir:       dir,
		log:       log,
	}
}

// Export writes the annotations of fileName. When the store holds none,
// the result is domain.ExportEmpty and nothing is written.
func (s *ExportService) Export(
	ctx context.Context,
	fileName, dest string,
	format domain.ExportFormat,
) (*domain.ExportResult, error) {
	if format == "" {
		format = domain.ExportCSV
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: no exporter for %s", domain.ErrNotImplemented, format)
	}

	name := domain.BaseName(fileName)
	rows, err := s.store.ListForExport(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("listing annotations for export: %w", err)
	}
	if len(rows) == 0 {
		s.log.Info("export: no annotations stored for %s", name)
		return &domain.ExportResult{Outcome: domain.ExportEmpty, Format: format}, nil
	}

	if dest == "" {
		dest = s.DefaultDestination(name, format)
	}
	if err := writeAtomic(dest, func(f *os.File) error {
		return exporter.Write(f, name, rows)
	}); err != nil {
		return nil, fmt.Errorf("writing %s: %w", dest, err)
	}

	s.log.Info("exported %d annotation(s) of %s to %s", len(rows), name, dest)
	return &domain.ExportResult{
		Outcome: domain.ExportWritten,
		Path:    dest,
		Rows:    len(rows),
		Format:  format,
	}, nil
}

// DefaultDestination returns <dir>/<stem>_annotations.<ext>.
func (s *ExportService) DefaultDestination(fileName string, format domain.ExportFormat) string {
	base := domain.BaseName(fileName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.dir, stem+"_annotations."+format.Extension())
}

// Formats lists the registered formats in name order.
func (s *ExportService) Formats() []domain.ExportFormat {
	formats := make([]domain.ExportFormat, 0, len(s.exporters))
	for f := range s.exporters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// writeAtomic writes to a temporary file beside dest and renames it into
// place, so a failed export never leaves a partial file.
func writeAtomic(dest string, write func(f *os.File) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), dest)
}
