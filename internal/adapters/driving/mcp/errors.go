// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfmark.
// It lets AI assistants read and export the annotations pdfmark has captured.
package mcp

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")
