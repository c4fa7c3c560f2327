package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [pdf]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for pdfmark.

With a PDF argument the document is opened straight away and watched: when
the file changes on disk it is re-opened and its stored annotations are
reloaded. Without an argument the TUI browses annotated files and settings.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Save
  a        - Annotate a new selection
  d        - Remove the selected annotation
  u        - Undo the last annotation
  e        - Export
  Esc      - Back / Cancel
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tui.NewPorts(annotationService, catalogService, exportService, settingsService)
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	app.WithContext(ctx)

	var path string
	if len(args) == 1 {
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}
		app.WithDocument(path)
		defer annotationService.Close()
	}

	p := app.NewProgram()
	if path != "" && fileWatcher != nil {
		go watchDocument(ctx, p, path)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// watchDocument forwards changes of path to the program until ctx ends.
func watchDocument(ctx context.Context, p *tea.Program, path string) {
	err := fileWatcher.Watch(ctx, path, func() {
		p.Send(messages.DocumentChanged{Path: path})
	})
	if err != nil && !errors.Is(err, context.Canceled) && appLog != nil {
		appLog.Warn("watching %s stopped: %v", path, err)
	}
}
