package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

func TestSettingsShow(t *testing.T) {
	newTestServices(t)

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Store")
	assert.Contains(t, out, "DPI:         300")
	assert.Contains(t, out, "Format:      csv")
	assert.NotContains(t, out, "Warning:")
}

func TestSettingsShow_PostgresMasksPassword(t *testing.T) {
	ts := newTestServices(t)
	ts.settings.GetFunc = func() (*domain.AppSettings, error) {
		s := domain.DefaultAppSettings()
		s.Store.Backend = domain.StorePostgres
		s.Store.PostgresDSN = "postgres://pdfmark:secret@db:5432/pdfmark"
		return &s, nil
	}

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "pdfmark:xxxxx@db:5432")
}

func TestSettingsSet(t *testing.T) {
	ts := newTestServices(t)
	var gotKey, gotValue string
	ts.settings.SetFunc = func(key, value string) error {
		gotKey, gotValue = key, value
		return nil
	}

	out, err := execute(t, "settings", "set", "render.dpi", "150")

	require.NoError(t, err)
	assert.Equal(t, "render.dpi", gotKey)
	assert.Equal(t, "150", gotValue)
	assert.Contains(t, out, "Set render.dpi = 150")
}

func TestSettingsSet_Error(t *testing.T) {
	ts := newTestServices(t)
	ts.settings.SetFunc = func(string, string) error {
		return errors.New("unknown setting")
	}

	_, err := execute(t, "settings", "set", "colour", "blue")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set colour")
}

func TestMaskDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "(not set)"},
		{"no password", "postgres://db/pdfmark", "postgres://db/pdfmark"},
		{"password", "postgres://u:p@db/pdfmark", "postgres://u:xxxxx@db/pdfmark"},
		{"unparseable", "postgres://u:p@db:port/x", "(unparseable)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskDSN(tt.in))
		})
	}
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "/data", orDefault("/data", "~/.pdfmark"))
	assert.Equal(t, "~/.pdfmark (default)", orDefault("", "~/.pdfmark"))
}
