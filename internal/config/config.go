// Package config reads the client settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL        = "http://localhost:8080"
	DefaultTimeout       = 15 * time.Second
	DefaultRPS           = 10.0
	DefaultNavigateDelay = 1500 * time.Millisecond
)

type Config struct {
	APIURL        string
	Timeout       time.Duration
	RPS           float64
	UserAgent     string
	NavigateDelay time.Duration
	LogLevel      string
	LogFile       string
}

// LoadEnvFiles reads .env and .env.local from the working directory.
func LoadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds a Config from the environment. Malformed numbers and
// durations are reported rather than silently replaced by defaults.
func Load() (Config, error) {
	cfg := Config{
		APIURL:    getEnv("CATALOG_API_URL", DefaultAPIURL),
		UserAgent: os.Getenv("CATALOG_USER_AGENT"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   os.Getenv("CATALOG_LOG_FILE"),
	}

	var err error
	if cfg.Timeout, err = getDuration("CATALOG_TIMEOUT", DefaultTimeout); err != nil {
		return Config{}, err
	}
	if cfg.NavigateDelay, err = getDuration("CATALOG_NAVIGATE_DELAY", DefaultNavigateDelay); err != nil {
		return Config{}, err
	}
	if cfg.RPS, err = getFloat("CATALOG_RPS", DefaultRPS); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s must not be negative", key)
	}
	return d, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}
