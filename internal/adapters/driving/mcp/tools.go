package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfmark/internal/adapters/driven/classifier"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// ListFilesInput is the input schema for the list_files tool.
type ListFilesInput struct{}

// ListFilesOutput is the output schema for the list_files tool.
type ListFilesOutput struct {
	Files []FileOutput `json:"files"`
	Count int          `json:"count"`
}

// FileOutput describes one annotated document.
type FileOutput struct {
	FileName    string `json:"file_name"`
	Annotations int    `json:"annotations"`
	Pages       int    `json:"pages"`
}

// ListAnnotationsInput is the input schema for the list_annotations tool.
type ListAnnotationsInput struct {
	FileName string `json:"file_name" jsonschema:"base name of the annotated PDF"`
	Field    string `json:"field,omitempty" jsonschema:"only return annotations for this field"`
}

// ListAnnotationsOutput is the output schema for the list_annotations tool.
type ListAnnotationsOutput struct {
	FileName     string             `json:"file_name"`
	Meta         []AnnotationOutput `json:"meta"`
	LineItems    []LineItemOutput   `json:"line_items"`
	Unclassified []AnnotationOutput `json:"unclassified,omitempty"`
	Count        int                `json:"count"`
}

// LineItemOutput is one numbered line item row.
type LineItemOutput struct {
	Number      string             `json:"number"`
	Annotations []AnnotationOutput `json:"annotations"`
}

// AnnotationOutput is a single stored annotation.
type AnnotationOutput struct {
	ID               int64     `json:"id,omitempty"`
	Page             int       `json:"page"`
	Field            string    `json:"field,omitempty"`
	LineItemNumber   string    `json:"line_item_number,omitempty"`
	Text             string    `json:"text"`
	StandardizedDate string    `json:"standardized_date,omitempty"`
	Rect             []float64 `json:"rect"`
	MultipageGroup   string    `json:"multipage_group,omitempty"`
	MultipageType    string    `json:"multipage_type,omitempty"`
}

// ExportInput is the input schema for the export_annotations tool.
type ExportInput struct {
	FileName string `json:"file_name" jsonschema:"base name of the annotated PDF"`
	Format   string `json:"format,omitempty" jsonschema:"csv, xlsx or yaml (default csv)"`
	Output   string `json:"output,omitempty" jsonschema:"destination path (default under the data directory)"`
}

// ExportOutput is the output schema for the export_annotations tool.
type ExportOutput struct {
	Outcome string `json:"outcome"`
	Path    string `json:"path,omitempty"`
	Rows    int    `json:"rows"`
	Format  string `json:"format"`
}

// ListFieldsInput is the input schema for the list_fields tool.
type ListFieldsInput struct{}

// ListFieldsOutput is the output schema for the list_fields tool.
type ListFieldsOutput struct {
	Meta       []string `json:"meta"`
	LineItem   []string `json:"line_item"`
	DateFields []string `json:"date_fields"`
}

// AnnotateInput is the input schema for the annotate tool.
type AnnotateInput struct {
	Path           string    `json:"path" jsonschema:"path to the PDF on disk"`
	Page           int       `json:"page" jsonschema:"1-based page of the selection start"`
	Rect           []float64 `json:"rect" jsonschema:"x0,y0,x1,y1 in PDF points with a top-left origin"`
	EndPage        int       `json:"end_page,omitempty" jsonschema:"1-based end page for multi-page selections"`
	EndPoint       []float64 `json:"end_point,omitempty" jsonschema:"x,y of the bottom-right corner on the end page"`
	Field          string    `json:"field" jsonschema:"meta or line item field name"`
	LineItemNumber string    `json:"line_item_number,omitempty" jsonschema:"line item row number"`
}

// AnnotateOutput is the output schema for the annotate tool.
type AnnotateOutput struct {
	Annotations []AnnotationOutput `json:"annotations"`
	Count       int                `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_files",
		Description: "List every PDF with stored annotations",
	}, s.handleListFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_annotations",
		Description: "List the annotations of a PDF grouped into meta fields and line items",
	}, s.handleListAnnotations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_fields",
		Description: "List the meta and line item fields annotations can be classified as",
	}, s.handleListFields)

	if s.ports.Export != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "export_annotations",
			Description: "Export the annotations of a PDF to CSV, XLSX or YAML",
		}, s.handleExport)
	}

	if s.ports.Annotation != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "annotate",
			Description: "Highlight a region of a PDF and store it as a classified annotation",
		}, s.handleAnnotate)
	}
}

// handleListFiles handles the list_files tool invocation.
func (s *Server) handleListFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListFilesInput,
) (*mcp.CallToolResult, ListFilesOutput, error) {
	files, err := s.ports.Catalog.Files(ctx)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}

	output := ListFilesOutput{
		Files: make([]FileOutput, len(files)),
		Count: len(files),
	}
	for i, f := range files {
		output.Files[i] = FileOutput{
			FileName:    f.FileName,
			Annotations: f.Annotations,
			Pages:       f.Pages,
		}
	}

	return nil, output, nil
}

// handleListAnnotations handles the list_annotations tool invocation.
func (s *Server) handleListAnnotations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListAnnotationsInput,
) (*mcp.CallToolResult, ListAnnotationsOutput, error) {
	if input.FileName == "" {
		return nil, ListAnnotationsOutput{}, fmt.Errorf("%w: file_name is required", domain.ErrInvalidInput)
	}

	grouped, err := s.ports.Catalog.Grouped(ctx, input.FileName)
	if err != nil {
		return nil, ListAnnotationsOutput{}, err
	}

	return nil, groupedOutput(grouped, input.Field), nil
}

// handleListFields handles the list_fields tool invocation.
func (s *Server) handleListFields(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListFieldsInput,
) (*mcp.CallToolResult, ListFieldsOutput, error) {
	return nil, ListFieldsOutput{
		Meta:       domain.MetaFields,
		LineItem:   domain.LineItemFields,
		DateFields: domain.DateFields,
	}, nil
}

// handleExport handles the export_annotations tool invocation.
func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	if input.FileName == "" {
		return nil, ExportOutput{}, fmt.Errorf("%w: file_name is required", domain.ErrInvalidInput)
	}

	format, err := domain.ParseExportFormat(input.Format)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	result, err := s.ports.Export.Export(ctx, input.FileName, input.Output, format)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	return nil, ExportOutput{
		Outcome: result.Outcome.String(),
		Path:    result.Path,
		Rows:    result.Rows,
		Format:  result.Format.String(),
	}, nil
}

// handleAnnotate opens the document, stores one annotation and closes it again.
func (s *Server) handleAnnotate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnnotateInput,
) (*mcp.CallToolResult, AnnotateOutput, error) {
	sel, err := selectionFromInput(input)
	if err != nil {
		return nil, AnnotateOutput{}, err
	}

	c := domain.Classification{Type: domain.AnnotationMeta, Field: input.Field}
	if domain.IsLineItemField(input.Field) {
		c = domain.Classification{
			Type:           domain.AnnotationLineItem,
			Field:          input.Field,
			LineItemNumber: input.LineItemNumber,
		}
	}
	static, err := classifier.NewStatic(c)
	if err != nil {
		return nil, AnnotateOutput{}, err
	}

	s.annotateMu.Lock()
	defer s.annotateMu.Unlock()

	if _, err := s.ports.Annotation.Open(ctx, input.Path); err != nil {
		return nil, AnnotateOutput{}, err
	}
	defer s.ports.Annotation.Close() //nolint:errcheck

	added, err := s.ports.Annotation.Annotate(ctx, sel, static)
	if err != nil {
		return nil, AnnotateOutput{}, err
	}
	if len(added) == 0 {
		return nil, AnnotateOutput{}, errors.New("selection was cancelled")
	}

	output := AnnotateOutput{
		Annotations: make([]AnnotationOutput, len(added)),
		Count:       len(added),
	}
	for i := range added {
		output.Annotations[i] = annotationOutput(added[i])
	}
	return nil, output, nil
}

// selectionFromInput converts 1-based tool input into a selection.
func selectionFromInput(input AnnotateInput) (domain.Selection, error) {
	if input.Path == "" {
		return domain.Selection{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	if input.Page < 1 {
		return domain.Selection{}, fmt.Errorf("%w: page must be 1 or greater", domain.ErrInvalidInput)
	}
	if len(input.Rect) != 4 {
		return domain.Selection{}, fmt.Errorf("%w: rect needs 4 values", domain.ErrInvalidInput)
	}

	r := domain.NewRect(input.Rect[0], input.Rect[1], input.Rect[2], input.Rect[3])
	start := input.Page - 1
	if input.EndPage == 0 || input.EndPage == input.Page {
		return domain.SinglePage(start, r), nil
	}
	if len(input.EndPoint) != 2 {
		return domain.Selection{}, fmt.Errorf("%w: end_point needs 2 values", domain.ErrInvalidInput)
	}

	return domain.Selection{
		StartPage: start,
		StartRect: r,
		EndPage:   input.EndPage - 1,
		EndRect:   domain.NewRect(0, 0, input.EndPoint[0], input.EndPoint[1]),
	}, nil
}

// groupedOutput flattens a grouping into the tool schema, optionally
// keeping a single field.
func groupedOutput(g *domain.GroupedAnnotations, field string) ListAnnotationsOutput {
	keep := func(a domain.Annotation) bool {
		return field == "" || a.Field == field
	}

	output := ListAnnotationsOutput{
		FileName:  g.FileName,
		Meta:      []AnnotationOutput{},
		LineItems: []LineItemOutput{},
	}
	for _, a := range g.Meta {
		if keep(a) {
			output.Meta = append(output.Meta, annotationOutput(a))
			output.Count++
		}
	}
	for _, item := range g.LineItems {
		row := LineItemOutput{Number: item.Number}
		for _, a := range item.Annotations {
			if keep(a) {
				row.Annotations = append(row.Annotations, annotationOutput(a))
			}
		}
		if len(row.Annotations) > 0 {
			output.LineItems = append(output.LineItems, row)
			output.Count += len(row.Annotations)
		}
	}
	for _, a := range g.Unclassified {
		if keep(a) {
			output.Unclassified = append(output.Unclassified, annotationOutput(a))
			output.Count++
		}
	}
	return output
}

// annotationOutput converts an annotation with a 1-based page number.
func annotationOutput(a domain.Annotation) AnnotationOutput {
	out := AnnotationOutput{
		Page:           a.Page + 1,
		Field:          a.Field,
		LineItemNumber: a.LineItemNumber,
		Text:           a.Text,
		Rect:           []float64{a.Rect.X0, a.Rect.Y0, a.Rect.X1, a.Rect.Y1},
	}
	if a.ID != nil {
		out.ID = *a.ID
	}
	if a.StandardizedDate != nil {
		out.StandardizedDate = *a.StandardizedDate
	}
	if a.Multipage != nil {
		out.MultipageGroup = a.Multipage.GroupID
		out.MultipageType = string(a.Multipage.Type)
	}
	return out
}
