package domain

import "fmt"

const unknownDescription = "Unknown"

// StoreBackend selects the relational store that persists annotations.
type StoreBackend string

// Available store backends.
const (
	// StoreSQLite is the embedded, file-based store.
	StoreSQLite StoreBackend = "sqlite"

	// StorePostgres is a shared PostgreSQL database.
	StorePostgres StoreBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	return b == StoreSQLite || b == StorePostgres
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StoreBackend) Description() string {
	switch b {
	case StoreSQLite:
		return "SQLite (local file)"
	case StorePostgres:
		return "PostgreSQL (shared database)"
	default:
		return unknownDescription
	}
}

// StoreSettings configures annotation persistence.
type StoreSettings struct {
	Backend StoreBackend

	// DataDir holds the SQLite database and the default export directory.
	DataDir string

	// PostgresDSN is the connection string used by the postgres backend.
	PostgresDSN string
}

// RenderSettings configures page previews.
type RenderSettings struct {
	// DPI is the raster resolution of PNG previews.
	DPI int

	// HighlightColor is the RGBA colour of highlight marks.
	HighlightColor [4]uint8
}

// ExportSettings configures annotation exports.
type ExportSettings struct {
	// Format is used when no format is given explicitly.
	Format ExportFormat

	// Dir overrides <data dir>/exports when set.
	Dir string
}

// LogSettings configures the application logger.
type LogSettings struct {
	// Dir is where the log file is written.
	Dir string

	// Verbose mirrors debug output to stderr.
	Verbose bool
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Store  StoreSettings
	Render RenderSettings
	Export ExportSettings
	Log    LogSettings
}

// Validate checks settings for values the application cannot run with.
func (s *AppSettings) Validate() error {
	if !s.Store.Backend.IsValid() {
		return fmt.Errorf("%w: store backend %q", ErrInvalidInput, s.Store.Backend)
	}
	if s.Store.Backend == StorePostgres && s.Store.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres backend requires a DSN", ErrInvalidInput)
	}
	if s.Render.DPI <= 0 {
		return fmt.Errorf("%w: render dpi must be positive", ErrInvalidInput)
	}
	if _, err := ParseExportFormat(s.Export.Format.String()); err != nil {
		return err
	}
	return nil
}

// DefaultHighlightColor is semi-transparent blue.
var DefaultHighlightColor = [4]uint8{0, 0, 255, 128}

// DefaultAppSettings returns settings with sensible defaults.
// Directories are left empty and resolved against the home directory
// by the adapters that use them.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Store: StoreSettings{
			Backend: StoreSQLite,
		},
		Render: RenderSettings{
			DPI:            300,
			HighlightColor: DefaultHighlightColor,
		},
		Export: ExportSettings{
			Format: ExportCSV,
		},
	}
}

// AllStoreBackends returns all available store backends.
func AllStoreBackends() []StoreBackend {
	return []StoreBackend{StoreSQLite, StorePostgres}
}
