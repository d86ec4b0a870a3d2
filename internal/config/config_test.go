package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "/data/accounts.json.enc", cfg.StorePath)
	assert.Equal(t, "/data/accounts.key", cfg.KeyPath)
	assert.Equal(t, "/data/mail_cache.db", cfg.CachePath)
	assert.Equal(t, 100, cfg.SearchResultLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ACCOUNTS_PATH", "/tmp/a.enc")
	t.Setenv("ACCOUNTS_KEY_PATH", "/tmp/a.key")
	t.Setenv("CACHE_PATH", "/tmp/c.db")
	t.Setenv("SEARCH_RESULT_LIMIT", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.enc", cfg.StorePath)
	assert.Equal(t, "/tmp/a.key", cfg.KeyPath)
	assert.Equal(t, "/tmp/c.db", cfg.CachePath)
	assert.Equal(t, 25, cfg.SearchResultLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_BadIntFallsBack(t *testing.T) {
	t.Setenv("SEARCH_RESULT_LIMIT", "not-a-number")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 100, cfg.SearchResultLimit)
}

func TestValidate_KeyMustDifferFromStore(t *testing.T) {
	cfg := &Config{
		StorePath:         "/data/same",
		KeyPath:           "/data/same",
		CachePath:         "/data/c.db",
		SearchResultLimit: 100,
	}

	assert.Error(t, cfg.Validate())
}

func TestValidate_LimitBounds(t *testing.T) {
	cfg := &Config{
		StorePath:         "/data/a.enc",
		KeyPath:           "/data/a.key",
		CachePath:         "/data/c.db",
		SearchResultLimit: 0,
	}
	assert.Error(t, cfg.Validate())

	cfg.SearchResultLimit = 1001
	assert.Error(t, cfg.Validate())

	cfg.SearchResultLimit = 1000
	assert.NoError(t, cfg.Validate())
}
