package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

var renderCmd = &cobra.Command{
	Use:   "render [pdf]",
	Short: "Render a page preview with its highlights",
	Long: `Render a page preview showing the page box, the positions of its words and
the highlights of stored annotations.

The format follows the output extension unless --format is given. Use
--output - to write to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

// Render flags.
var (
	renderPage   int
	renderFormat string
	renderOutput string
)

func init() {
	renderCmd.Flags().IntVarP(&renderPage, "page", "p", 1, "Page to render (1-based)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: png or svg")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Destination file (default <stem>_p<page>.<format>)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if annotationService == nil || previewService == nil {
		return errors.New("preview service not configured")
	}

	name := renderFormat
	if name == "" && renderOutput != "" && renderOutput != "-" {
		name = strings.TrimPrefix(filepath.Ext(renderOutput), ".")
	}
	format, err := domain.ParseRenderFormat(name)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	info, err := annotationService.Open(ctx, args[0])
	if err != nil {
		return err
	}
	defer annotationService.Close()

	dest := renderOutput
	if dest == "" {
		stem := strings.TrimSuffix(info.FileName, filepath.Ext(info.FileName))
		dest = fmt.Sprintf("%s_p%d.%s", stem, renderPage, format)
	}

	var w io.Writer
	if dest == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dest, err)
		}
		defer f.Close()
		w = f
	}

	if err := previewService.Render(ctx, renderPage-1, format, w); err != nil {
		if dest != "-" {
			_ = os.Remove(dest)
		}
		return fmt.Errorf("failed to render page %d: %w", renderPage, err)
	}
	if dest != "-" {
		cmd.Printf("Rendered page %d of %s to %s\n", renderPage, info.FileName, dest)
	}
	return nil
}
