package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [pdf]",
	Short: "Show document information",
	Long: `Show the page count, title, author and subject of a PDF together with the
number of annotations stored for it.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if annotationService == nil {
		return errors.New("annotation service not configured")
	}

	info, err := annotationService.Open(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer annotationService.Close()

	cmd.Printf("File:        %s\n", info.FileName)
	cmd.Printf("Path:        %s\n", info.Path)
	cmd.Printf("Pages:       %d\n", info.PageCount)
	cmd.Printf("Title:       %s\n", orDefault(info.Metadata.Title, "(none)"))
	cmd.Printf("Author:      %s\n", orDefault(info.Metadata.Author, "(none)"))
	cmd.Printf("Subject:     %s\n", orDefault(info.Metadata.Subject, "(none)"))
	cmd.Printf("Annotations: %d\n", info.Annotations)
	return nil
}
