package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/config"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	t.Setenv("NA_DATA_DIR", dataDir)

	// Act
	cfg, err := config.LoadConfig("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, filepath.Join(dataDir, "neutron.db"), cfg.Database.Path)
	assert.Equal(t, time.Second, cfg.Poller.Interval)
	assert.Equal(t, "https://www.spansh.co.uk/api", cfg.Services.Spansh.BaseURL)
	assert.Equal(t, 4*time.Second, cfg.Services.Spansh.ExactPollInterval)
	assert.Equal(t, uint(300), cfg.Services.Spansh.MaxPolls)
	assert.Equal(t, time.Hour, cfg.Services.EDSM.CacheTTL)
	assert.Equal(t, "Gobidev/EDNeutronAssistant", cfg.Services.GitHub.Repo)
	assert.Equal(t, "127.0.0.1:50061", cfg.Daemon.Address)
	assert.Equal(t, filepath.Join(dataDir, "neutron-daemon.pid"), cfg.Daemon.PIDFile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	t.Setenv("NA_DATA_DIR", dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
poller:
  interval: 2s
journal:
  directory: /games/journal
services:
  spansh:
    max_polls: 10
logging:
  level: debug
`), 0o644))
	t.Setenv("NA_LOGGING_LEVEL", "warn")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Poller.Interval)
	assert.Equal(t, "/games/journal", cfg.Journal.Directory)
	assert.Equal(t, uint(10), cfg.Services.Spansh.MaxPolls)
	assert.Equal(t, "warn", cfg.Logging.Level, "environment overrides the file")
}

func TestLoadConfig_DatabaseURLSelectsPostgres(t *testing.T) {
	// Arrange
	t.Setenv("NA_DATA_DIR", t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://neutron@localhost/neutron")

	// Act
	cfg, err := config.LoadConfig("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "postgres://neutron@localhost/neutron", cfg.Database.URL)
}

func TestValidateConfig_ReportsConfigKeys(t *testing.T) {
	// Arrange
	t.Setenv("NA_DATA_DIR", t.TempDir())
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Logging.Level = "verbose"
	cfg.Logging.Output = "file"

	// Act
	err := config.ValidateConfig(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level failed validation: oneof")
	assert.Contains(t, err.Error(), "logging.file_path failed validation: required_if")
}

func TestLoadConfigOrDefault_FallsBackOnInvalidFile(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	t.Setenv("NA_DATA_DIR", dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644))

	// Act
	cfg := config.LoadConfigOrDefault(path)

	// Assert
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestUserConfigHandler_DefaultsAndRoundTrip(t *testing.T) {
	// Arrange
	h, err := config.NewUserConfigHandler(t.TempDir())
	require.NoError(t, err)

	// Act
	initial, err := h.Load()
	require.NoError(t, err)
	err = h.Update(func(c *config.UserConfig) {
		c.DefaultEfficiency = 80
		c.Exact.Cargo = 64
		c.AutoCopyOnStart = true
	})
	require.NoError(t, err)
	saved, err := h.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, config.DefaultUserConfig(), initial)
	assert.Equal(t, 80, saved.DefaultEfficiency)
	assert.Equal(t, 64, saved.Exact.Cargo)
	assert.True(t, saved.Exact.UseSupercharge)
	assert.True(t, saved.AutoCopyOnStart)
	assert.Equal(t, "user_settings.json", filepath.Base(h.GetConfigPath()))
}

func TestUserConfigHandler_PartialFileKeepsDefaults(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_settings.json"),
		[]byte(`{"theme":"light","default_efficiency":0}`), 0o644))
	h, err := config.NewUserConfigHandler(dir)
	require.NoError(t, err)

	// Act
	cfg, err := h.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, 60, cfg.DefaultEfficiency)
	assert.True(t, cfg.Exact.ExcludeSecondary)
}
