package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "catalogview", cfg.App.Name)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "grpc", cfg.Otel.Protocol)
	assert.False(t, cfg.Store.DiscardStale)
	assert.Equal(t, int64(1), cfg.Snowflake.Node)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CATALOG_API_BASE_URL", " http://catalog.internal:9090/ ")
	t.Setenv("CATALOG_API_TIMEOUT", "3s")
	t.Setenv("CATALOG_STORE_DISCARD_STALE", "true")
	t.Setenv("CATALOG_ENVIRONMENT", "Production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://catalog.internal:9090", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Store.DiscardStale)
	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	content := []byte("api:\n  base_url: https://catalog.example.com\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	applyDefaults(v)
	require.NoError(t, v.ReadInConfig())

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "https://catalog.example.com", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
}

func TestValidate(t *testing.T) {
	base := Config{
		API: APIConfig{BaseURL: "http://localhost:8080", Timeout: time.Second},
	}
	require.NoError(t, base.Validate())

	relative := base
	relative.API.BaseURL = "/products"
	assert.Error(t, relative.Validate())

	noTimeout := base
	noTimeout.API.Timeout = 0
	assert.Error(t, noTimeout.Validate())

	badNode := base
	badNode.Snowflake.Node = 2048
	assert.Error(t, badNode.Validate())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
