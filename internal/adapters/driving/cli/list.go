package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/services"
)

var listCmd = &cobra.Command{
	Use:   "list [pdf]",
	Short: "List stored annotations of a document",
	Long: `List the stored annotations of a document. Only the file name is used to
find them, so the PDF does not need to be present.

With --grouped, meta fields are shown first and line items are grouped by
their line item number.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List documents with stored annotations",
	Args:  cobra.NoArgs,
	RunE:  runFiles,
}

var fieldsCmd = &cobra.Command{
	Use:         "fields",
	Short:       "Show the fields annotations can be tagged with",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	Run:         runFields,
}

// listGrouped is a flag for the list command.
var listGrouped bool

func init() {
	listCmd.Flags().BoolVarP(&listGrouped, "grouped", "g", false, "Group by meta fields and line items")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(fieldsCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	ctx := commandContext(cmd)
	name := domain.BaseName(args[0])

	if listGrouped {
		g, err := catalogService.Grouped(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to list annotations: %w", err)
		}
		printGrouped(cmd, g)
		return nil
	}

	rows, err := catalogService.ByFile(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to list annotations: %w", err)
	}
	if len(rows) == 0 {
		cmd.Printf("No annotations stored for %s\n", name)
		return nil
	}

	cmd.Printf("Annotations for %s:\n\n", name)
	for i := range rows {
		printAnnotation(cmd, rows[i])
	}
	cmd.Printf("\nTotal: %d annotations\n", len(rows))
	return nil
}

func printGrouped(cmd *cobra.Command, g *domain.GroupedAnnotations) {
	if g.Len() == 0 {
		cmd.Printf("No annotations stored for %s\n", g.FileName)
		return
	}

	cmd.Printf("%s\n", g.FileName)
	if len(g.Meta) > 0 {
		cmd.Println("\nMeta")
		for _, a := range g.Meta {
			cmd.Printf("  %-24s %s\n", a.Field, services.DisplayText(a))
		}
	}
	for _, item := range g.LineItems {
		number := item.Number
		if number == "" {
			number = "(none)"
		}
		cmd.Printf("\nLine item %s\n", number)
		for _, a := range item.Annotations {
			cmd.Printf("  %-24s %s\n", a.Field, services.DisplayText(a))
		}
	}
	if len(g.Unclassified) > 0 {
		cmd.Println("\nUnclassified")
		for _, a := range g.Unclassified {
			cmd.Printf("  page %-19d %s\n", a.Page+1, services.DisplayText(a))
		}
	}
}

func runFiles(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	files, err := catalogService.Files(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	if len(files) == 0 {
		cmd.Println("No annotated documents.")
		return nil
	}

	for _, f := range files {
		cmd.Printf("  %-40s %4d annotations on %d page(s)\n", f.FileName, f.Annotations, f.Pages)
	}
	cmd.Printf("\nTotal: %d documents\n", len(files))
	return nil
}

func runFields(cmd *cobra.Command, _ []string) {
	dates := make(map[string]bool, len(domain.DateFields))
	for _, f := range domain.DateFields {
		dates[f] = true
	}
	mark := func(f string) string {
		if dates[f] {
			return f + " (date)"
		}
		return f
	}

	cmd.Println("meta:")
	for _, f := range domain.MetaFields {
		cmd.Printf("  %s\n", mark(f))
	}
	cmd.Println("line_item:")
	for _, f := range domain.LineItemFields {
		cmd.Printf("  %s\n", mark(f))
	}
	cmd.Printf("\nDate fields are stored with a YYYY-MM-DD value; brackets in their text are removed.\n")
}
