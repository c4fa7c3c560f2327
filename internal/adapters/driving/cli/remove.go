package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

var removeCmd = &cobra.Command{
	Use:   "remove [pdf]",
	Short: "Remove an annotation and its highlight",
	Long: `Remove one annotation of a document from the store and from the page.

Select it by durable id (--id, shown by 'pdfmark list'), by position in the
document's annotation list (--index, 1-based) or take the newest one (--last).`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

// Remove flags.
var (
	removeID    int64
	removeIndex int
	removeLast  bool
)

func init() {
	removeCmd.Flags().Int64Var(&removeID, "id", 0, "Durable id of the annotation")
	removeCmd.Flags().IntVar(&removeIndex, "index", 0, "Position in the annotation list (1-based)")
	removeCmd.Flags().BoolVar(&removeLast, "last", false, "Remove the newest annotation")
	removeCmd.MarkFlagsMutuallyExclusive("id", "index", "last")
	removeCmd.MarkFlagsOneRequired("id", "index", "last")

	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if annotationService == nil {
		return errors.New("annotation service not configured")
	}

	if cmd.Flags().Changed("index") && removeIndex < 1 {
		return fmt.Errorf("%w: --index is 1-based, got %d", domain.ErrInvalidInput, removeIndex)
	}

	ctx := commandContext(cmd)
	if _, err := annotationService.Open(ctx, args[0]); err != nil {
		return err
	}
	defer annotationService.Close()

	var (
		res *driving.RemoveResult
		err error
	)
	switch {
	case removeLast:
		res, err = annotationService.RemoveLast(ctx)
	case cmd.Flags().Changed("index"):
		res, err = annotationService.RemoveAt(ctx, removeIndex-1)
	default:
		res, err = annotationService.RemoveByID(ctx, removeID)
	}
	if err != nil {
		return fmt.Errorf("failed to remove annotation: %w", err)
	}

	if res.Partial() {
		cmd.PrintErrf("Warning: annotation %s: %v\n", res.Outcome, res.Err)
	}
	cmd.Printf("Removed:\n")
	printAnnotation(cmd, res.Annotation)
	return nil
}
