package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 50, cfg.Storage.HistoryRetention)
	assert.Equal(t, 60*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.Backoff)
	assert.Equal(t, 20, cfg.Planner.CuisineCap)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MEALPLANNER_STORAGE_BACKEND", "sqlite")
	t.Setenv("MEALPLANNER_SESSION_TTL", "15m")
	t.Setenv("MEALPLANNER_PROVIDERS_OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "sk-test", cfg.Providers.OpenAIAPIKey)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MEALPLANNER_STORAGE_BACKEND", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}
