package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8900", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 30*time.Second, cfg.ProcessorTimeout())
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce())
	assert.Equal(t, 2, cfg.Search.MinQueryRunes)
	assert.Equal(t, 6, cfg.Search.Limit)
	assert.False(t, cfg.Logging.DebugMode)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Backend.BaseURL, cfg.Backend.BaseURL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
backend:
  base_url: https://shop.example.com
  timeout: 5s
search:
  debounce_millis: 150
logging:
  debug_mode: true
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce())
	assert.True(t, cfg.Logging.DebugMode)

	// Fields not in the file keep their defaults.
	assert.Equal(t, "http://localhost:8901", cfg.Processor.BaseURL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_BACKEND_URL", "http://10.0.0.5:9000")
	t.Setenv("STOREFRONT_DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9000", cfg.Backend.BaseURL)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestBadTimeoutFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.Timeout = "not-a-duration"
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout())

	cfg.Backend.Timeout = "-3s"
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Backend.BaseURL = "https://api.shop.test"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.shop.test", loaded.Backend.BaseURL)
}
