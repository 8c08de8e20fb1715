package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSheetsEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_REFERENCE_SHEET_ID", "doc")
	t.Setenv("APP_EVENTS_SOURCE", "")
	t.Setenv("APP_EVENTS_BASE_URL", "https://example.test/d/e/x/")
	t.Setenv("APP_EVENTS_GIDS", " 1, 2,,3 ")
}

func TestLoadDefaults(t *testing.T) {
	setSheetsEnv(t)
	for _, k := range []string{"APP_SOURCE_TTL", "APP_DRIVE_TTL", "APP_FETCH_TIMEOUT", "APP_REFRESH_WARM", "APP_LOCALE", "APP_LISTEN_ADDR", "APP_ADMIN_PASSWORD_HASH"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, EventsFromSheets, cfg.EventsSource)
	assert.Equal(t, []string{"1", "2", "3"}, cfg.EventsGIDs)
	assert.Equal(t, time.Hour, cfg.SourceTTL)
	assert.Equal(t, 24*time.Hour, cfg.DriveTTL)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, "GOOGLE_SERVICE_ACCOUNT_JSON", cfg.DriveCredentialsEnv)
	assert.False(t, cfg.RefreshWarm)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadOverrides(t *testing.T) {
	setSheetsEnv(t)
	t.Setenv("APP_SOURCE_TTL", "15m")
	t.Setenv("APP_REFRESH_WARM", "true")
	t.Setenv("APP_ADMIN_PASSWORD_HASH", "$2a$10$abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.SourceTTL)
	assert.True(t, cfg.RefreshWarm)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	setSheetsEnv(t)
	t.Setenv("APP_FETCH_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_FETCH_TIMEOUT")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		EventsSource: EventsFromDrive,
		SourceTTL:    time.Hour,
		DriveTTL:     time.Hour,
		FetchTimeout: time.Second,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_REFERENCE_SHEET_ID")
	assert.Contains(t, err.Error(), "APP_DRIVE_FOLDER_ID")

	cfg.ReferenceXLSX = "ref.xlsx"
	cfg.DriveFolderID = "folder"
	assert.NoError(t, cfg.Validate())

	cfg.EventsSource = "ftp"
	assert.Error(t, cfg.Validate())
}
