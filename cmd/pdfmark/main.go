// Command pdfmark annotates fields in PDF documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/pdfmark/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/export/csv"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/export/xlsx"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/export/yaml"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/ids"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/pdf"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/render"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfmark/internal/adapters/driven/watch"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/services"
	"github.com/custodia-labs/pdfmark/internal/logger"
	"github.com/custodia-labs/pdfmark/internal/normalisers/date"
)

// version is set by build flags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters into the core services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	var configStore driven.ConfigStore
	if opts.NoConfig {
		configStore = memory.NewConfigStore()
	} else {
		fileStore, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		configStore = fileStore
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}
	opts.Apply(settings)
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("getting home directory: %w", err)
	}
	dataDir := orDefault(settings.Store.DataDir, filepath.Join(home, ".pdfmark", "data"))
	logDir := orDefault(settings.Log.Dir, filepath.Join(home, ".pdfmark", "logs"))
	exportDir := orDefault(settings.Export.Dir, filepath.Join(dataDir, "exports"))

	log, err := logger.Setup(logDir, settings.Log.Verbose)
	if err != nil {
		return nil, nil, err
	}
	log.Section("pdfmark " + version)

	store, closeStore, err := openStore(ctx, settings, dataDir, log)
	if err != nil {
		_ = log.Close()
		return nil, nil, err
	}
	log.Info("store backend: %s", settings.Store.Backend)

	dates := date.New()
	reconciler := services.NewReconciler(ids.NewUUIDGenerator(), dates, log)
	renderer := render.New(settings.Render.DPI, settings.Render.HighlightColor, log)
	session := services.NewAnnotationSession(pdf.NewOpener(log), store, reconciler, renderer, log)

	svc := &cli.Services{
		Annotation: session,
		Catalog:    services.NewCatalogService(store, dates, log),
		Export:     services.NewExportService(store, exportDir, log, csv.New(), xlsx.New(), yaml.New()),
		Preview:    services.NewPreviewService(session, renderer),
		Settings:   settingsService,
		Watcher:    watch.New(0, log),
		Logger:     log,
	}

	cleanup := func() {
		if err := session.Close(); err != nil {
			log.Warn("closing document: %v", err)
		}
		if err := closeStore(); err != nil {
			log.Warn("closing store: %v", err)
		}
		_ = log.Close()
	}
	return svc, cleanup, nil
}

// openStore opens the configured annotation store.
func openStore(
	ctx context.Context,
	settings *domain.AppSettings,
	dataDir string,
	log *logger.Logger,
) (driven.AnnotationStore, func() error, error) {
	switch settings.Store.Backend {
	case domain.StorePostgres:
		db, err := postgres.Open(ctx, postgres.DefaultConfig(settings.Store.PostgresDSN), log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return db.AnnotationStore(), db.Close, nil
	default:
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return db.AnnotationStore(), db.Close, nil
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
