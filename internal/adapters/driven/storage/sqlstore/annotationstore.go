package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

const selectColumns = `
	SELECT id, file_name, page_num, rect_x0, rect_y0, rect_x1, rect_y1,
		annotation_text, annotation_type, field_name, line_item_number,
		standardized_date, is_multipage, multipage_position, multipage_type,
		group_id, date_created
	FROM annotations`

// Orderings. Single-page rows have NULL group and position; COALESCE makes
// them sort first on every engine.
const (
	queryOrder  = ` ORDER BY COALESCE(group_id, ''), COALESCE(multipage_position, 0), id`
	exportOrder = ` ORDER BY field_name, COALESCE(line_item_number, ''), COALESCE(group_id, ''),
		COALESCE(multipage_position, 0), id`
)

// AnnotationStore implements driven.AnnotationStore on a *sql.DB.
type AnnotationStore struct {
	db      *sql.DB
	dialect Dialect
}

var _ driven.AnnotationStore = (*AnnotationStore)(nil)

// NewAnnotationStore wraps db. The schema must already be migrated.
func NewAnnotationStore(db *sql.DB, d Dialect) *AnnotationStore {
	return &AnnotationStore{db: db, dialect: d}
}

// Insert persists one annotation in a single statement and returns its ID.
func (s *AnnotationStore) Insert(ctx context.Context, fileName string, a *domain.Annotation) (int64, error) {
	if a == nil {
		return 0, domain.ErrInvalidInput
	}

	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var (
		position sql.NullInt64
		kind     sql.NullString
		groupID  sql.NullString
	)
	if a.Multipage != nil {
		position = sql.NullInt64{Int64: int64(a.Multipage.Position), Valid: true}
		kind = sql.NullString{String: string(a.Multipage.Type), Valid: true}
		groupID = sql.NullString{String: a.Multipage.GroupID, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		INSERT INTO annotations (
			file_name, page_num, rect_x0, rect_y0, rect_x1, rect_y1,
			annotation_text, annotation_type, field_name, line_item_number,
			standardized_date, is_multipage, multipage_position, multipage_type,
			group_id, date_created
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		domain.BaseName(fileName),
		a.Page,
		a.Rect.X0, a.Rect.Y0, a.Rect.X1, a.Rect.Y1,
		a.Text,
		string(a.Type),
		a.Field,
		nullString(a.LineItemNumber),
		nullStringPtr(a.StandardizedDate),
		a.Multipage != nil,
		position,
		kind,
		groupID,
		created.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting annotation: %w", err)
	}
	return id, nil
}

// QueryByFile returns the annotations of a file in display order.
func (s *AnnotationStore) QueryByFile(ctx context.Context, fileName string) ([]domain.Annotation, error) {
	return s.query(ctx, selectColumns+` WHERE file_name = ?`+queryOrder, domain.BaseName(fileName))
}

// DeleteByID removes one annotation.
func (s *AnnotationStore) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM annotations WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting annotation %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting annotation %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListForExport returns the annotations of a file in export order.
func (s *AnnotationStore) ListForExport(ctx context.Context, fileName string) ([]domain.Annotation, error) {
	return s.query(ctx, selectColumns+` WHERE file_name = ?`+exportOrder, domain.BaseName(fileName))
}

// ListFiles summarises every annotated file.
func (s *AnnotationStore) ListFiles(ctx context.Context) ([]domain.FileSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_name, COUNT(*), COUNT(DISTINCT page_num)
		FROM annotations
		GROUP BY file_name
		ORDER BY file_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []domain.FileSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var f domain.FileSummary
		if err := rows.Scan(&f.FileName, &f.Annotations, &f.Pages); err != nil {
			return nil, fmt.Errorf("scanning file summary: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}
	return files, nil
}

func (s *AnnotationStore) query(ctx context.Context, query string, args ...any) ([]domain.Annotation, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	annotations := make([]domain.Annotation, 0)
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating annotations: %w", err)
	}
	return annotations, nil
}

func scanAnnotation(rows *sql.Rows) (*domain.Annotation, error) {
	var (
		a          domain.Annotation
		id         int64
		text       sql.NullString
		annType    string
		lineItem   sql.NullString
		stdDate    sql.NullString
		multipage  bool
		position   sql.NullInt64
		kind       sql.NullString
		groupID    sql.NullString
		createdRaw any
	)

	err := rows.Scan(
		&id, &a.FileName, &a.Page,
		&a.Rect.X0, &a.Rect.Y0, &a.Rect.X1, &a.Rect.Y1,
		&text, &annType, &a.Field, &lineItem,
		&stdDate, &multipage, &position, &kind,
		&groupID, &createdRaw,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning annotation: %w", err)
	}

	a.ID = domain.Int64Ptr(id)
	a.Text = text.String
	a.Type = domain.AnnotationType(annType)
	a.LineItemNumber = lineItem.String
	if stdDate.Valid && stdDate.String != "" {
		a.StandardizedDate = domain.StringPtr(stdDate.String)
	}
	if multipage {
		a.Multipage = &domain.Multipage{
			Position: int(position.Int64),
			Type:     domain.MultipageType(kind.String),
			GroupID:  groupID.String,
		}
	}
	a.CreatedAt = parseTime(createdRaw)
	return &a, nil
}

// parseTime accepts the time representations the drivers return for
// timestamp columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	default:
		return time.Time{}
	}
}

func parseTimeString(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
