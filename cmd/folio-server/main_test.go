package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/folio-dev/folio/internal/providers"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, providers.DefaultModels, config.Inference.Models)
	assert.Equal(t, 30*time.Second, config.Inference.Timeout)
	assert.Equal(t, 100, config.Inference.MaxNewTokens)
	assert.InDelta(t, 0.7, config.Inference.Temperature, 1e-9)
	assert.True(t, config.Inference.DoSample)
	assert.Equal(t, providers.DefaultPersona, config.Assistant.Persona)
	assert.Equal(t, "memory", config.Cache.Type)
	assert.Empty(t, config.Feed.RSSURL)
	assert.Equal(t, 2, config.Feed.MaxRetries)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8081
inference:
  models: ["gpt2"]
  timeout: 5s
cache:
  type: redis
  redis:
    addr: cache:6379
`), 0o644))

	t.Setenv("HUGGINGFACE_API_KEY", "hf_secret")
	t.Setenv("MEDIUM_RSS_URL", "https://medium.com/feed/@jose")
	t.Setenv("FOLIO_OBSERVABILITY_LOGGING_LEVEL", "debug")

	config, err := loadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 8081, config.Server.Port)
	assert.Equal(t, []string{"gpt2"}, config.Inference.Models)
	assert.Equal(t, 5*time.Second, config.Inference.Timeout)
	assert.Equal(t, "hf_secret", config.Inference.APIKey)
	assert.Equal(t, "https://medium.com/feed/@jose", config.Feed.RSSURL)
	assert.Equal(t, "redis", config.Cache.Type)
	assert.Equal(t, "cache:6379", config.Cache.Redis.Addr)
	assert.Equal(t, "debug", config.Observability.Logging.Level)
}

func TestLoadConfigPrefixedEnvWins(t *testing.T) {
	t.Setenv("HUGGINGFACE_API_KEY", "plain")
	t.Setenv("FOLIO_INFERENCE_API_KEY", "prefixed")

	config, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "prefixed", config.Inference.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, loadDotEnv(""))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FOLIO_DOTENV_VALUE=loaded\n"), 0o644))
	t.Setenv("FOLIO_DOTENV_VALUE", "")
	require.NoError(t, os.Unsetenv("FOLIO_DOTENV_VALUE"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("FOLIO_DOTENV_VALUE"))
}
