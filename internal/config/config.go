package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Event source kinds.
const (
	EventsFromSheets = "sheets"
	EventsFromDrive  = "drive"
)

// Config holds the runtime configuration of the dashboard service.
// Values come from environment variables, with defaults where sensible.
// See .env.example.
type Config struct {
	ListenAddr string
	Env        string
	LogLevel   string

	// AdminUser and AdminPasswordHash enable HTTP Basic auth on the
	// dashboard routes. An empty hash leaves them open.
	AdminUser         string
	AdminPasswordHash string

	ReferenceSheetID string
	ReferenceGID     string
	// ReferenceXLSX, when set, replaces the reference sheet with a local
	// workbook.
	ReferenceXLSX string

	EventsSource  string
	EventsBaseURL string
	EventsGIDs    []string

	DriveFolderID       string
	DriveCredentialsEnv string

	SourceTTL    time.Duration
	DriveTTL     time.Duration
	FetchTimeout time.Duration

	// CatalogPath overrides the embedded indicator catalog.
	CatalogPath string
	Locale      string

	RefreshWarm bool
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:          getenv("APP_LISTEN_ADDR", ":8080"),
		Env:                 getenv("APP_ENV", "development"),
		LogLevel:            getenv("APP_LOG_LEVEL", "info"),
		AdminUser:           getenv("APP_ADMIN_USER", "admin"),
		AdminPasswordHash:   os.Getenv("APP_ADMIN_PASSWORD_HASH"),
		ReferenceSheetID:    os.Getenv("APP_REFERENCE_SHEET_ID"),
		ReferenceGID:        getenv("APP_REFERENCE_GID", "0"),
		ReferenceXLSX:       os.Getenv("APP_REFERENCE_XLSX"),
		EventsSource:        strings.ToLower(getenv("APP_EVENTS_SOURCE", EventsFromSheets)),
		EventsBaseURL:       os.Getenv("APP_EVENTS_BASE_URL"),
		EventsGIDs:          splitList(os.Getenv("APP_EVENTS_GIDS")),
		DriveFolderID:       os.Getenv("APP_DRIVE_FOLDER_ID"),
		DriveCredentialsEnv: getenv("APP_DRIVE_CREDENTIALS_ENV", "GOOGLE_SERVICE_ACCOUNT_JSON"),
		CatalogPath:         os.Getenv("APP_CATALOG_PATH"),
		Locale:              getenv("APP_LOCALE", "pt-BR"),
	}

	var errs []error
	var err error
	if cfg.SourceTTL, err = getduration("APP_SOURCE_TTL", time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.DriveTTL, err = getduration("APP_DRIVE_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.FetchTimeout, err = getduration("APP_FETCH_TIMEOUT", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if v := os.Getenv("APP_REFRESH_WARM"); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			errs = append(errs, fmt.Errorf("APP_REFRESH_WARM: %w", perr))
		}
		cfg.RefreshWarm = b
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected sources have what they need.
func (c *Config) Validate() error {
	var errs []error
	if c.ReferenceXLSX == "" && c.ReferenceSheetID == "" {
		errs = append(errs, errors.New("APP_REFERENCE_SHEET_ID or APP_REFERENCE_XLSX is required"))
	}
	switch c.EventsSource {
	case EventsFromSheets:
		if c.EventsBaseURL == "" {
			errs = append(errs, errors.New("APP_EVENTS_BASE_URL is required for sheet events"))
		}
		if len(c.EventsGIDs) == 0 {
			errs = append(errs, errors.New("APP_EVENTS_GIDS is required for sheet events"))
		}
	case EventsFromDrive:
		if c.DriveFolderID == "" {
			errs = append(errs, errors.New("APP_DRIVE_FOLDER_ID is required for drive events"))
		}
	default:
		errs = append(errs, fmt.Errorf("APP_EVENTS_SOURCE: unknown source %q", c.EventsSource))
	}
	if c.AdminPasswordHash != "" && c.AdminUser == "" {
		errs = append(errs, errors.New("APP_ADMIN_USER is required when a password hash is set"))
	}
	for name, d := range map[string]time.Duration{
		"APP_SOURCE_TTL":    c.SourceTTL,
		"APP_DRIVE_TTL":     c.DriveTTL,
		"APP_FETCH_TIMEOUT": c.FetchTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	return errors.Join(errs...)
}

// AuthEnabled reports whether the dashboard is behind Basic auth.
func (c *Config) AuthEnabled() bool { return c.AdminPasswordHash != "" }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
