package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

func TestOptions_Apply(t *testing.T) {
	s := domain.DefaultAppSettings()
	s.Store.DataDir = "/stored"

	Options{
		Backend:     "POSTGRES",
		PostgresDSN: "postgres://db/pdfmark",
		LogDir:      "/logs",
		Verbose:     true,
	}.Apply(&s)

	assert.Equal(t, domain.StorePostgres, s.Store.Backend)
	assert.Equal(t, "/stored", s.Store.DataDir)
	assert.Equal(t, "postgres://db/pdfmark", s.Store.PostgresDSN)
	assert.Equal(t, "/logs", s.Log.Dir)
	assert.True(t, s.Log.Verbose)
}

func TestOptions_Apply_EmptyKeepsSettings(t *testing.T) {
	s := domain.DefaultAppSettings()
	want := s

	Options{}.Apply(&s)

	assert.Equal(t, want, s)
}

func TestResolveOptions_Environment(t *testing.T) {
	t.Setenv("PDFMARK_STORE_BACKEND", "postgres")
	t.Setenv("PDFMARK_STORE_DATA_DIR", "/env/data")
	resetFlags(rootCmd)

	opts := ResolveOptions()

	assert.Equal(t, "postgres", opts.Backend)
	assert.Equal(t, "/env/data", opts.DataDir)
}

func TestSetup_RunsBootstrapAndCleanup(t *testing.T) {
	var gotOpts Options
	cleaned := false
	catalog := &tuitest.CatalogService{}
	SetBootstrap(func(_ context.Context, opts Options) (*Services, func(), error) {
		gotOpts = opts
		return &Services{Catalog: catalog}, func() { cleaned = true }, nil
	})
	t.Cleanup(func() {
		SetBootstrap(nil)
		SetServices(nil)
	})

	out, err := execute(t, "files", "--data-dir", "/flag/data")

	require.NoError(t, err)
	assert.Equal(t, "/flag/data", gotOpts.DataDir)
	assert.Contains(t, out, "No annotated documents.")
	assert.True(t, cleaned)
}

func TestSetup_BootstrapError(t *testing.T) {
	SetBootstrap(func(context.Context, Options) (*Services, func(), error) {
		return nil, nil, errors.New("database unreachable")
	})
	t.Cleanup(func() { SetBootstrap(nil) })

	_, err := execute(t, "files")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unreachable")
}

func TestSetup_SkippedForVersion(t *testing.T) {
	called := false
	SetBootstrap(func(context.Context, Options) (*Services, func(), error) {
		called = true
		return &Services{}, nil, nil
	})
	t.Cleanup(func() { SetBootstrap(nil) })

	_, err := execute(t, "version")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestCommands_RequireServices(t *testing.T) {
	SetServices(nil)

	tests := [][]string{
		{"files"},
		{"list", "rfq.pdf"},
		{"export", "rfq.pdf"},
		{"remove", "rfq.pdf", "--last"},
		{"annotate", "rfq.pdf", "--rect", "0,0,1,1", "--field", "currency"},
		{"render", "rfq.pdf"},
		{"info", "rfq.pdf"},
		{"settings", "show"},
	}

	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not configured")
		})
	}
}

func TestSetVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"annotate", "list", "files", "fields", "remove", "export",
		"render", "info", "settings", "tui", "mcp", "version",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestTUICmd_Args(t *testing.T) {
	assert.Equal(t, "tui [pdf]", tuiCmd.Use)
	assert.NoError(t, tuiCmd.Args(tuiCmd, nil))
	assert.NoError(t, tuiCmd.Args(tuiCmd, []string{"rfq.pdf"}))
	assert.Error(t, tuiCmd.Args(tuiCmd, []string{"a.pdf", "b.pdf"}))
}

func TestTUI_RequiresServices(t *testing.T) {
	SetServices(nil)

	err := runTUI(tuiCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create TUI")
}
