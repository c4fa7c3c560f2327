package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

func TestExtractFileName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid annotations URI",
			uri:      "pdfmark://files/rfq.pdf/annotations",
			expected: "rfq.pdf",
		},
		{
			name:     "percent-encoded name",
			uri:      "pdfmark://files/my%20rfq.pdf/annotations",
			expected: "my rfq.pdf",
		},
		{
			name:     "invalid prefix",
			uri:      "file://files/rfq.pdf/annotations",
			expected: "",
		},
		{
			name:     "missing annotations suffix",
			uri:      "pdfmark://files/rfq.pdf",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "pdfmark://files/a/b.pdf/annotations",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractFileName(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleFilesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns files successfully", func(t *testing.T) {
		catalog := &mockCatalogService{
			files: []domain.FileSummary{{FileName: "rfq.pdf", Annotations: 4, Pages: 2}},
		}
		server, err := NewServer(&Ports{Catalog: catalog})
		require.NoError(t, err)

		req := makeReadResourceRequest("pdfmark://files")
		result, err := server.handleFilesResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"file_name": "rfq.pdf"`)
		assert.Contains(t, result.Contents[0].Text, `"annotations": 4`)
	})

	t.Run("empty store returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		req := makeReadResourceRequest("pdfmark://files")
		result, err := server.handleFilesResource(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		catalog := &mockCatalogService{err: errors.New("database error")}
		server, err := NewServer(&Ports{Catalog: catalog})
		require.NoError(t, err)

		req := makeReadResourceRequest("pdfmark://files")
		_, err = server.handleFilesResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing files")
	})
}

func TestServer_handleAnnotationsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns grouped annotations", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{grouped: rfqGrouping()}})
		require.NoError(t, err)

		req := makeReadResourceRequest("pdfmark://files/rfq.pdf/annotations")
		result, err := server.handleAnnotationsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"field": "currency"`)
		assert.Contains(t, text, `"standardized_date": "2024-03-15"`)
		assert.Contains(t, text, `"multipage_group": "g-1"`)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		req := makeReadResourceRequest("pdfmark://invalid/uri")
		_, err = server.handleAnnotationsResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("file without annotations returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		req := makeReadResourceRequest("pdfmark://files/none.pdf/annotations")
		_, err = server.handleAnnotationsResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns error on catalog failure", func(t *testing.T) {
		catalog := &mockCatalogService{err: errors.New("database error")}
		server, err := NewServer(&Ports{Catalog: catalog})
		require.NoError(t, err)

		req := makeReadResourceRequest("pdfmark://files/rfq.pdf/annotations")
		_, err = server.handleAnnotationsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "grouping annotations")
	})
}
