package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL    string
	AVKey    string
	Port     string
	LogLevel string

	QuoteWorkers int
	QuoteTTL     time.Duration
	QuoteSuffix  string

	// ClosePolicy is "reset" or "retain"; see ledger.ParseClosePolicy
	ClosePolicy    string
	ImportMaxBytes int64
}

// Load reads configuration from a .env file (if present) and environment variables.
// Variables already set in the shell take precedence over .env values.
func Load() (*Config, error) {
	// Missing .env is fine, deployments set the environment directly
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	cfg := &Config{
		PGURL:       pgURL,
		AVKey:       os.Getenv("AV_KEY"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		QuoteSuffix: getEnv("QUOTE_SUFFIX", ".SAO"),
		ClosePolicy: getEnv("CLOSE_POLICY", "reset"),
	}

	var err error
	if cfg.QuoteWorkers, err = getInt("QUOTE_WORKERS", 8); err != nil {
		return nil, err
	}
	if cfg.QuoteWorkers < 1 {
		return nil, fmt.Errorf("QUOTE_WORKERS must be at least 1, got %d", cfg.QuoteWorkers)
	}

	if cfg.QuoteTTL, err = getDuration("QUOTE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	maxBytes, err := getInt("IMPORT_MAX_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	cfg.ImportMaxBytes = int64(maxBytes)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
