// Package cli provides the pdfmark command line interface.
package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
	"github.com/custodia-labs/pdfmark/internal/logger"
)

// EnvPrefix prefixes environment overrides, e.g. PDFMARK_STORE_BACKEND.
const EnvPrefix = "PDFMARK"

// Viper keys of the global flags.
const (
	keyNoConfig  = "no_config"
	keyConfigDir = "config_dir"
)

// version is set at build time.
var version = "dev"

// Services are the core ports the commands drive.
type Services struct {
	Annotation driving.AnnotationService
	Catalog    driving.CatalogService
	Export     driving.ExportService
	Preview    driving.PreviewService
	Settings   driving.SettingsService
	Watcher    driven.FileWatcher
	Logger     *logger.Logger
}

// Options are the global settings resolved from flags and environment.
// Empty values leave the stored settings unchanged.
type Options struct {
	NoConfig    bool
	ConfigDir   string
	Verbose     bool
	Backend     string
	DataDir     string
	PostgresDSN string
	LogDir      string
}

// Apply overlays the options on stored settings.
func (o Options) Apply(s *domain.AppSettings) {
	if o.Backend != "" {
		s.Store.Backend = domain.StoreBackend(strings.ToLower(o.Backend))
	}
	if o.DataDir != "" {
		s.Store.DataDir = o.DataDir
	}
	if o.PostgresDSN != "" {
		s.Store.PostgresDSN = o.PostgresDSN
	}
	if o.LogDir != "" {
		s.Log.Dir = o.LogDir
	}
	if o.Verbose {
		s.Log.Verbose = true
	}
}

// Bootstrap builds the services once options are known. The returned
// cleanup runs after the command finishes.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	bootstrap Bootstrap
	cleanup   func()

	annotationService driving.AnnotationService
	catalogService    driving.CatalogService
	exportService     driving.ExportService
	previewService    driving.PreviewService
	settingsService   driving.SettingsService
	fileWatcher       driven.FileWatcher
	appLog            *logger.Logger
)

// config resolves flags over PDFMARK_ environment variables.
var config = newConfig()

var rootCmd = &cobra.Command{
	Use:   "pdfmark",
	Short: "Annotate fields in PDF documents",
	Long: `pdfmark highlights regions of PDF documents, tags them with the field they
contain and keeps the result in a local or shared database.

Selections may span several pages; each page gets its own linked fragment.
Stored annotations can be listed, removed and exported to CSV, XLSX or YAML.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	},
}

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Bool("no-config", false, "Ignore the config file and use defaults")
	flags.String("config-dir", "", "Directory holding config.toml (default ~/.pdfmark)")
	flags.BoolP("verbose", "v", false, "Print log output to stderr")
	flags.String("backend", "", "Store backend: sqlite or postgres")
	flags.String("data-dir", "", "Directory for the SQLite database and exports")
	flags.String("dsn", "", "PostgreSQL connection string")
	flags.String("log-dir", "", "Directory for pdfmark.log")

	_ = config.BindPFlag(keyNoConfig, flags.Lookup("no-config"))
	_ = config.BindPFlag(keyConfigDir, flags.Lookup("config-dir"))
	_ = config.BindPFlag("log.verbose", flags.Lookup("verbose"))
	_ = config.BindPFlag("store.backend", flags.Lookup("backend"))
	_ = config.BindPFlag("store.data_dir", flags.Lookup("data-dir"))
	_ = config.BindPFlag("store.postgres_dsn", flags.Lookup("dsn"))
	_ = config.BindPFlag("log.dir", flags.Lookup("log-dir"))
}

// SetBootstrap registers the function that builds services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	annotationService = s.Annotation
	catalogService = s.Catalog
	exportService = s.Export
	previewService = s.Preview
	settingsService = s.Settings
	fileWatcher = s.Watcher
	appLog = s.Logger
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ResolveOptions reads the global options.
func ResolveOptions() Options {
	return Options{
		NoConfig:    config.GetBool(keyNoConfig),
		ConfigDir:   config.GetString(keyConfigDir),
		Verbose:     config.GetBool("log.verbose"),
		Backend:     config.GetString("store.backend"),
		DataDir:     config.GetString("store.data_dir"),
		PostgresDSN: config.GetString("store.postgres_dsn"),
		LogDir:      config.GetString("log.dir"),
	}
}

// skipSetup marks commands that run without services.
const skipSetup = "skip-setup"

func setup(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Annotations[skipSetup]; ok {
		return nil
	}
	if bootstrap == nil {
		// Services were injected with SetServices.
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, done, err := bootstrap(ctx, ResolveOptions())
	if err != nil {
		return err
	}
	if services == nil {
		return errors.New("bootstrap returned no services")
	}
	SetServices(services)
	cleanup = done
	return nil
}

// commandContext returns the command's context or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
