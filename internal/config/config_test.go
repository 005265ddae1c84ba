package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GOOGLE_API_KEY", "HAE_MODEL", "HAE_ADDR", "HAE_LOG_LEVEL", "HAE_REDIS_ADDR", "HAE_CONCURRENCY"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3600, cfg.Analyzer.MaxSegmentSeconds)
	assert.Equal(t, 3, cfg.Analyzer.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Analyzer.BaseDelay)
	assert.Equal(t, 1, cfg.Pipeline.Concurrency)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "hae.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
analyzer:
  max_attempts: 5
  base_delay: 500ms
pipeline:
  concurrency: 3
gemini:
  model: gemini-2.5-pro
`), 0600))

	t.Setenv("GOOGLE_API_KEY", "secret")
	t.Setenv("HAE_REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Analyzer.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Analyzer.BaseDelay)
	assert.Equal(t, 3600, cfg.Analyzer.MaxSegmentSeconds)
	assert.Equal(t, 3, cfg.Pipeline.Concurrency)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "hae.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analyzer:\n  max_attempts: 0\ntracing:\n  exporter: jaeger\n"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_attempts")
	assert.Contains(t, err.Error(), "jaeger")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "hae.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "hae.yaml")

	cfg := defaultConfig()
	cfg.Pipeline.Concurrency = 2
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Pipeline.Concurrency)
	assert.Equal(t, cfg.Analyzer, loaded.Analyzer)
}

func TestRedacted(t *testing.T) {
	cfg := defaultConfig()
	cfg.Gemini.APIKey = "secret"

	red := cfg.Redacted()
	assert.Equal(t, "***", red.Gemini.APIKey)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
}

func TestContextRoundTrip(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Addr = ":1"

	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
	assert.Equal(t, ":8080", FromContext(context.Background()).Server.Addr)
}
