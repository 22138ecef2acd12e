package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"ADDR", "STATIC_DIR", "BACKEND_URL", "OTEL_EXPORTER_OTLP_ENDPOINT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, "./dist", cfg.Server.StaticDir)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADDR", ":9090")
	t.Setenv("STATIC_DIR", "/srv/bundle")
	t.Setenv("BACKEND_URL", "http://backend:5000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/srv/bundle", cfg.Server.StaticDir)
	assert.Equal(t, "http://backend:5000", cfg.Server.BackendURL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BACKEND_URL", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BACKEND_URL=http://from-dotenv:5000\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv:5000", cfg.Server.BackendURL)
}

func TestFromDataset(t *testing.T) {
	t.Parallel()
	cfg, err := FromDataset(map[string]string{}, "https://example.test")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", cfg.API.BaseURL)
	assert.Equal(t, DefaultMaxDepth, cfg.Handler.MaxDepth)

	cfg, err = FromDataset(map[string]string{"apiBase": "https://api.test", "maxDepth": "2", "logLevel": "debug"}, "https://example.test")
	require.NoError(t, err)
	assert.Equal(t, "https://api.test", cfg.API.BaseURL)
	assert.Equal(t, 2, cfg.Handler.MaxDepth)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = FromDataset(map[string]string{"maxDepth": "-1"}, "")
	assert.Error(t, err)
}

func TestFromDatasetRetriesAndTimeout(t *testing.T) {
	t.Parallel()
	cfg, err := FromDataset(map[string]string{}, "https://example.test")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.API.RetryMax)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)

	cfg, err = FromDataset(map[string]string{"retryMax": "2", "timeout": "3s"}, "https://example.test")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.API.RetryMax)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)

	for _, bad := range []map[string]string{
		{"retryMax": "many"},
		{"retryMax": "-1"},
		{"timeout": "soon"},
	} {
		_, err := FromDataset(bad, "https://example.test")
		assert.Error(t, err, bad)
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "WARN"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "loud"}).SlogLevel())
}
