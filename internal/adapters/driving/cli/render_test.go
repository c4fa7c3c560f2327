package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

func TestRender_ToFile(t *testing.T) {
	ts := newTestServices(t)
	dest := filepath.Join(t.TempDir(), "page.svg")

	out, err := execute(t, "render", "rfq.pdf", "--page", "2", "--output", dest)

	require.NoError(t, err)
	assert.Equal(t, 1, ts.preview.page)
	assert.Equal(t, domain.RenderSVG, ts.preview.format)
	assert.Contains(t, out, "Rendered page 2 of rfq.pdf")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

func TestRender_ToStdout(t *testing.T) {
	ts := newTestServices(t)

	out, err := execute(t, "render", "rfq.pdf", "--format", "svg", "--output", "-")

	require.NoError(t, err)
	assert.Equal(t, 0, ts.preview.page)
	assert.Equal(t, "<svg/>", out)
}

func TestRender_FailureRemovesFile(t *testing.T) {
	ts := newTestServices(t)
	ts.preview.err = domain.ErrPageOutOfRange
	dest := filepath.Join(t.TempDir(), "page.png")

	_, err := execute(t, "render", "rfq.pdf", "--page", "9", "--output", dest)

	assert.ErrorIs(t, err, domain.ErrPageOutOfRange)
	_, statErr := os.Stat(dest)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRender_UnknownFormat(t *testing.T) {
	newTestServices(t)

	_, err := execute(t, "render", "rfq.pdf", "--format", "gif")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
