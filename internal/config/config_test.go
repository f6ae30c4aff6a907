package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired provides the two settings with no defaults.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("LEGISYNC_API_KEY", "test-key")
	t.Setenv("LEGISYNC_DATABASE_URL", "postgres://localhost/legisync_test?sslmode=disable")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://legislation.nysenate.gov", cfg.API.BaseURL)
	assert.Equal(t, "test-key", cfg.API.Key)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.API.RequestDelay)
	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, 200, cfg.Sync.MaxBillsPerRun)
	assert.Equal(t, 50*time.Second, cfg.Sync.TimeBudget)
	assert.Equal(t, 24*time.Hour, cfg.Sync.Lookback)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("LEGISYNC_DATABASE_URL", "postgres://localhost/legisync_test")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API.Key")
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("LEGISYNC_API_KEY", "test-key")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.URL")
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LEGISYNC_API_BASE_URL", "http://localhost:9090")
	t.Setenv("LEGISYNC_SYNC_PAGE_SIZE", "25")
	t.Setenv("LEGISYNC_SYNC_TIME_BUDGET", "2m")
	t.Setenv("LEGISYNC_LOGGING_FORMAT", "console")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9090", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.Sync.PageSize)
	assert.Equal(t, 2*time.Minute, cfg.Sync.TimeBudget)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadConfigFile(t *testing.T) {
	setRequired(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  timeout: 10s
sync:
  max_bills_per_run: 50
server:
  port: 9000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 50, cfg.Sync.MaxBillsPerRun)
	assert.Equal(t, 9000, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.Equal(t, 100, cfg.Sync.PageSize)
}

func TestEnvBeatsFile(t *testing.T) {
	setRequired(t)
	t.Setenv("LEGISYNC_SERVER_PORT", "7070")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	setRequired(t)

	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("LEGISYNC_LOGGING_LEVEL", "verbose")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Logging.Level")
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "api.base_url", envTransform("LEGISYNC_API_BASE_URL"))
	assert.Equal(t, "api.key", envTransform("LEGISYNC_API_KEY"))
	assert.Equal(t, "sync.max_bills_per_run", envTransform("LEGISYNC_SYNC_MAX_BILLS_PER_RUN"))
	assert.Equal(t, "database.url", envTransform("LEGISYNC_DATABASE_URL"))
}
