package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigFile(t *testing.T, yaml string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	prev := configFile
	configFile = path
	t.Cleanup(func() { configFile = prev })
}

func TestLoadCLIConfigDefaults(t *testing.T) {
	prev := configFile
	configFile = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { configFile = prev })

	cfg, err := loadCLIConfig()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Backend.LoginTimeoutSeconds)
	assert.Equal(t, "file", cfg.Session.Store)
	assert.Equal(t, 60, cfg.Verification.ResendCooldownSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadCLIConfigFromFile(t *testing.T) {
	withConfigFile(t, `
backend:
  base_url: https://auth.example.com
  login_timeout_seconds: 30
session:
  store: redis
  redis:
    addr: localhost:6379
log:
  level: debug
`)

	cfg, err := loadCLIConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://auth.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 30, cfg.Backend.LoginTimeoutSeconds)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, "localhost:6379", cfg.Session.Redis.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Keys the file does not set keep their defaults.
	assert.Equal(t, 60, cfg.Verification.ResendCooldownSeconds)
}

func TestLoadCLIConfigEnvOverridesFile(t *testing.T) {
	withConfigFile(t, `
backend:
  base_url: https://file.example.com
`)
	t.Setenv("HRPAUTH_BACKEND__BASE_URL", "https://env.example.com")
	t.Setenv("HRPAUTH_LOG__LEVEL", "warn")

	cfg, err := loadCLIConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadCLIConfigFlagOverridesAll(t *testing.T) {
	withConfigFile(t, `
backend:
  base_url: https://file.example.com
`)
	t.Setenv("HRPAUTH_BACKEND__BASE_URL", "https://env.example.com")

	prev := baseURL
	baseURL = "https://flag.example.com"
	t.Cleanup(func() { baseURL = prev })

	cfg, err := loadCLIConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", cfg.Backend.BaseURL)
}

func TestSessionPathPrefersConfiguredPath(t *testing.T) {
	var cfg cliConfig
	cfg.Session.Path = "/tmp/hrpauth-test/session.json"

	path, err := sessionPath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hrpauth-test/session.json", path)
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 15*time.Second, seconds(15))
}
