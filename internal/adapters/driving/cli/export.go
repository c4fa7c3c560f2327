package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

var exportCmd = &cobra.Command{
	Use:   "export [pdf]",
	Short: "Export stored annotations to CSV, XLSX or YAML",
	Long: `Export the stored annotations of a document.

The default destination is <stem>_annotations.<ext> in the export directory.
Nothing is written when the document has no annotations.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// Export flags.
var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format: csv, xlsx or yaml (default from settings)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Destination file")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	format, err := resolveExportFormat()
	if err != nil {
		return err
	}

	res, err := exportService.Export(commandContext(cmd), domain.BaseName(args[0]), exportOutput, format)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	switch res.Outcome {
	case domain.ExportEmpty:
		cmd.Printf("No annotations stored for %s; nothing exported.\n", domain.BaseName(args[0]))
	default:
		cmd.Printf("Exported %d annotation(s) to %s\n", res.Rows, res.Path)
	}
	return nil
}

func resolveExportFormat() (domain.ExportFormat, error) {
	if exportFormat != "" {
		return domain.ParseExportFormat(exportFormat)
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			return s.Export.Format, nil
		}
	}
	return domain.ExportCSV, nil
}
