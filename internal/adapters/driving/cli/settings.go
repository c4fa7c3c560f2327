package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Show or change the settings stored in ~/.pdfmark/config.toml.

Every setting can be overridden for one run with an environment variable,
for example PDFMARK_STORE_BACKEND=postgres or PDFMARK_RENDER_DPI=150.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting and save it.

Keys:
  store.backend           sqlite or postgres
  store.data_dir          directory of the SQLite database
  store.postgres_dsn      connection string of the postgres backend
  render.dpi              resolution of PNG previews
  render.highlight_color  highlight colour as r,g,b,a
  export.format           default export format: csv, xlsx or yaml
  export.dir              default export directory
  log.dir                 directory of pdfmark.log
  log.verbose             true to print log output to stderr`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Store")
	cmd.Printf("  Backend:     %s\n", settings.Store.Backend.Description())
	cmd.Printf("  Data dir:    %s\n", orDefault(settings.Store.DataDir, "~/.pdfmark/data"))
	if settings.Store.Backend == domain.StorePostgres {
		cmd.Printf("  DSN:         %s\n", maskDSN(settings.Store.PostgresDSN))
	}
	cmd.Println()

	cmd.Println("Render")
	cmd.Printf("  DPI:         %d\n", settings.Render.DPI)
	cmd.Printf("  Highlight:   %s\n", services.FormatColor(settings.Render.HighlightColor))
	cmd.Println()

	cmd.Println("Export")
	cmd.Printf("  Format:      %s\n", settings.Export.Format)
	cmd.Printf("  Directory:   %s\n", orDefault(settings.Export.Dir, "<data dir>/exports"))
	cmd.Println()

	cmd.Println("Log")
	cmd.Printf("  Directory:   %s\n", orDefault(settings.Log.Dir, "~/.pdfmark"))
	cmd.Printf("  Verbose:     %t\n", settings.Log.Verbose)

	if err := settings.Validate(); err != nil {
		cmd.Printf("\nWarning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if key == services.KeyPostgresDSN {
		shown = maskDSN(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

// Helper functions.

func orDefault(v, def string) string {
	if v == "" {
		return def + " (default)"
	}
	return v
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	if dsn == "" {
		return "(not set)"
	}
	cfg, err := url.Parse(dsn)
	if err != nil {
		return "(unparseable)"
	}
	return cfg.Redacted()
}
