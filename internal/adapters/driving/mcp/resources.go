package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for pdfmark resources.
	uriScheme = "pdfmark://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing annotated files.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "files",
		Name:        "files",
		Description: "PDFs with stored annotations",
		MIMEType:    "application/json",
	}, s.handleFilesResource)

	// Template for the grouped annotations of one file.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "files/{fileName}/annotations",
		Name:        "file-annotations",
		Description: "Annotations of a PDF grouped into meta fields and line items",
		MIMEType:    "application/json",
	}, s.handleAnnotationsResource)
}

// handleFilesResource returns every annotated file.
func (s *Server) handleFilesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	files, err := s.ports.Catalog.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	infos := make([]FileOutput, len(files))
	for i, f := range files {
		infos[i] = FileOutput{FileName: f.FileName, Annotations: f.Annotations, Pages: f.Pages}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleAnnotationsResource returns the grouped annotations of one file.
func (s *Server) handleAnnotationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract fileName from URI: pdfmark://files/{fileName}/annotations
	fileName := extractFileName(req.Params.URI)
	if fileName == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	grouped, err := s.ports.Catalog.Grouped(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("grouping annotations: %w", err)
	}
	if grouped.Len() == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResult(req.Params.URI, groupedOutput(grouped, ""))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFileName extracts the file name from a URI like
// pdfmark://files/{fileName}/annotations. The name may be percent-encoded.
func extractFileName(uri string) string {
	const prefix = uriScheme + "files/"
	const suffix = "/annotations"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimSuffix(uri, suffix))
	if err != nil || strings.Contains(name, "/") {
		return ""
	}
	return name
}
