// Package yaml writes the structured extraction record of a document:
// meta fields keyed by name and line items keyed by field within each row.
package yaml

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Record is the serialised document.
type Record struct {
	FileName     string           `yaml:"file_name"`
	Meta         map[string]Value `yaml:"meta,omitempty"`
	LineItems    []LineItem       `yaml:"line_items,omitempty"`
	Unclassified []Value          `yaml:"unclassified,omitempty"`
}

// LineItem is one row of line item fields.
type LineItem struct {
	Number string           `yaml:"number"`
	Fields map[string]Value `yaml:"fields"`
}

// Value is the text captured for one field. Annotations of the same field
// are merged in export order, one line each.
type Value struct {
	Text             string `yaml:"text"`
	StandardizedDate string `yaml:"standardized_date,omitempty"`
	Pages            []int  `yaml:"pages,flow"`
}

// Exporter writes a Record.
type Exporter struct{}

// New creates a YAML exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns domain.ExportYAML.
func (e *Exporter) Format() domain.ExportFormat {
	return domain.ExportYAML
}

// Write serialises the record built from rows.
func (e *Exporter) Write(w io.Writer, fileName string, rows []domain.Annotation) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Build(fileName, rows)); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// Build groups rows into a Record.
func Build(fileName string, rows []domain.Annotation) *Record {
	rec := &Record{FileName: fileName}
	items := make(map[string]*LineItem)

	for _, a := range rows {
		switch a.Type {
		case domain.AnnotationMeta:
			if rec.Meta == nil {
				rec.Meta = make(map[string]Value)
			}
			rec.Meta[a.Field] = merge(rec.Meta[a.Field], a)
		case domain.AnnotationLineItem:
			item, ok := items[a.LineItemNumber]
			if !ok {
				item = &LineItem{Number: a.LineItemNumber, Fields: make(map[string]Value)}
				items[a.LineItemNumber] = item
			}
			item.Fields[a.Field] = merge(item.Fields[a.Field], a)
		default:
			rec.Unclassified = append(rec.Unclassified, merge(Value{}, a))
		}
	}

	numbers := make([]string, 0, len(items))
	for n := range items {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return domain.LineItemLess(numbers[i], numbers[j]) })
	for _, n := range numbers {
		rec.LineItems = append(rec.LineItems, *items[n])
	}
	return rec
}

func merge(v Value, a domain.Annotation) Value {
	if v.Text == "" {
		v.Text = a.Text
	} else if a.Text != "" {
		v.Text += "\n" + a.Text
	}
	if v.StandardizedDate == "" && a.StandardizedDate != nil {
		v.StandardizedDate = *a.StandardizedDate
	}
	page := a.Page + 1
	if n := len(v.Pages); n == 0 || v.Pages[n-1] != page {
		v.Pages = append(v.Pages, page)
	}
	return v
}
