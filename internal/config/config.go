package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration. Accounts themselves live in
// the encrypted credential store; only paths and server-level settings come
// from the environment.
type Config struct {
	// Credential store
	StorePath string
	KeyPath   string

	// Cache settings
	CachePath         string
	SearchResultLimit int

	LogLevel string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		StorePath:         getEnv("ACCOUNTS_PATH", "/data/accounts.json.enc"),
		KeyPath:           getEnv("ACCOUNTS_KEY_PATH", "/data/accounts.key"),
		CachePath:         getEnv("CACHE_PATH", "/data/mail_cache.db"),
		SearchResultLimit: getEnvInt("SEARCH_RESULT_LIMIT", 100),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("ACCOUNTS_PATH is required")
	}
	if c.KeyPath == "" {
		return fmt.Errorf("ACCOUNTS_KEY_PATH is required")
	}
	if c.KeyPath == c.StorePath {
		return fmt.Errorf("ACCOUNTS_KEY_PATH must differ from ACCOUNTS_PATH")
	}
	if c.CachePath == "" {
		return fmt.Errorf("CACHE_PATH is required")
	}
	if c.SearchResultLimit < 1 || c.SearchResultLimit > 1000 {
		return fmt.Errorf("SEARCH_RESULT_LIMIT must be between 1 and 1000")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default
// value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
