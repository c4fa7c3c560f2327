package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyStoreBackend   = "store.backend"
	KeyStoreDataDir   = "store.data_dir"
	KeyPostgresDSN    = "store.postgres_dsn"
	KeyRenderDPI      = "render.dpi"
	KeyHighlightColor = "render.highlight_color"
	KeyExportFormat   = "export.format"
	KeyExportDir      = "export.dir"
	KeyLogDir         = "log.dir"
	KeyLogVerbose     = "log.verbose"
)

var settingKeys = []string{
	KeyStoreBackend,
	KeyStoreDataDir,
	KeyPostgresDSN,
	KeyRenderDPI,
	KeyHighlightColor,
	KeyExportFormat,
	KeyExportDir,
	KeyLogDir,
	KeyLogVerbose,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Store: domain.StoreSettings{
			Backend:     s.getBackend(defaults.Store.Backend),
			DataDir:     s.getString(KeyStoreDataDir, defaults.Store.DataDir),
			PostgresDSN: s.configStore.GetString(KeyPostgresDSN),
		},
		Render: domain.RenderSettings{
			DPI:            s.getPositiveInt(KeyRenderDPI, defaults.Render.DPI),
			HighlightColor: s.getColor(defaults.Render.HighlightColor),
		},
		Export: domain.ExportSettings{
			Format: s.getExportFormat(defaults.Export.Format),
			Dir:    s.getString(KeyExportDir, defaults.Export.Dir),
		},
		Log: domain.LogSettings{
			Dir:     s.getString(KeyLogDir, defaults.Log.Dir),
			Verbose: s.configStore.GetBool(KeyLogVerbose),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyStoreBackend, settings.Store.Backend.String()},
		{KeyStoreDataDir, settings.Store.DataDir},
		{KeyPostgresDSN, settings.Store.PostgresDSN},
		{KeyRenderDPI, settings.Render.DPI},
		{KeyHighlightColor, FormatColor(settings.Render.HighlightColor)},
		{KeyExportFormat, settings.Export.Format.String()},
		{KeyExportDir, settings.Export.Dir},
		{KeyLogDir, settings.Log.Dir},
		{KeyLogVerbose, settings.Log.Verbose},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.configStore.Save()
}

// Set parses value for one key and saves the result.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyStoreBackend:
		settings.Store.Backend = domain.StoreBackend(strings.ToLower(value))
	case KeyStoreDataDir:
		settings.Store.DataDir = value
	case KeyPostgresDSN:
		settings.Store.PostgresDSN = value
	case KeyRenderDPI:
		dpi, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Render.DPI = dpi
	case KeyHighlightColor:
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		settings.Render.HighlightColor = c
	case KeyExportFormat:
		f, err := domain.ParseExportFormat(value)
		if err != nil {
			return err
		}
		settings.Export.Format = f
	case KeyExportDir:
		settings.Export.Dir = value
	case KeyLogDir:
		settings.Log.Dir = value
	case KeyLogVerbose:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Log.Verbose = v
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// SettingValue renders the value of one key the way Set accepts it.
// Unknown keys render empty.
func SettingValue(settings *domain.AppSettings, key string) string {
	switch key {
	case KeyStoreBackend:
		return settings.Store.Backend.String()
	case KeyStoreDataDir:
		return settings.Store.DataDir
	case KeyPostgresDSN:
		return settings.Store.PostgresDSN
	case KeyRenderDPI:
		return strconv.Itoa(settings.Render.DPI)
	case KeyHighlightColor:
		return FormatColor(settings.Render.HighlightColor)
	case KeyExportFormat:
		return settings.Export.Format.String()
	case KeyExportDir:
		return settings.Export.Dir
	case KeyLogDir:
		return settings.Log.Dir
	case KeyLogVerbose:
		return strconv.FormatBool(settings.Log.Verbose)
	default:
		return ""
	}
}

// Keys lists the settable keys in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// FormatColor renders an RGBA colour as "r,g,b,a".
func FormatColor(c [4]uint8) string {
	return fmt.Sprintf("%d,%d,%d,%d", c[0], c[1], c[2], c[3])
}

// ParseColor parses "r,g,b,a" with components in 0..255.
func ParseColor(s string) ([4]uint8, error) {
	var c [4]uint8
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return c, fmt.Errorf("%w: colour %q must be r,g,b,a", domain.ErrInvalidInput, s)
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return c, fmt.Errorf("%w: colour component %q", domain.ErrInvalidInput, p)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	b := domain.StoreBackend(s.configStore.GetString(KeyStoreBackend))
	if b.IsValid() {
		return b
	}
	return defaultVal
}

func (s *SettingsService) getExportFormat(defaultVal domain.ExportFormat) domain.ExportFormat {
	raw := s.configStore.GetString(KeyExportFormat)
	if raw == "" {
		return defaultVal
	}
	f, err := domain.ParseExportFormat(raw)
	if err != nil {
		return defaultVal
	}
	return f
}

func (s *SettingsService) getColor(defaultVal [4]uint8) [4]uint8 {
	c, err := ParseColor(s.configStore.GetString(KeyHighlightColor))
	if err != nil {
		return defaultVal
	}
	return c
}
