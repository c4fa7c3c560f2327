package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// fakePreview records the page it was asked to render.
type fakePreview struct {
	page   int
	format domain.RenderFormat
	err    error
}

func (f *fakePreview) Render(_ context.Context, page int, format domain.RenderFormat, w io.Writer) error {
	f.page = page
	f.format = format
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "<svg/>")
	return err
}

// testServices are the fakes injected for one command run.
type testServices struct {
	annotation *tuitest.AnnotationService
	catalog    *tuitest.CatalogService
	export     *tuitest.ExportService
	settings   *tuitest.SettingsService
	preview    *fakePreview
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		annotation: &tuitest.AnnotationService{},
		catalog:    &tuitest.CatalogService{},
		export:     &tuitest.ExportService{},
		settings:   &tuitest.SettingsService{},
		preview:    &fakePreview{},
	}
	SetBootstrap(nil)
	SetServices(&Services{
		Annotation: ts.annotation,
		Catalog:    ts.catalog,
		Export:     ts.export,
		Preview:    ts.preview,
		Settings:   ts.settings,
	})
	t.Cleanup(func() { SetServices(nil) })
	return ts
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		annotateClassifier = nil
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default,
// since package-level flag variables survive between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
