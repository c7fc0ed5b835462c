package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API   APIConfig
	Log   LogConfig
	Cache CacheConfig
}

// APIConfig holds the backend connection settings.
type APIConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// CacheConfig holds the on-disk locations for the session token and the
// branch selection cache.
type CacheConfig struct {
	TokenPath  string
	BranchPath string
}

func Load() (*Config, error) {
	// A .env file is optional for a client app; only a broken one is an
	// error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	config := &Config{}

	// API configuration
	timeout, err := time.ParseDuration(getEnv("HRIS_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HRIS_TIMEOUT: %w", err)
	}

	maxRetries, err := strconv.Atoi(getEnv("HRIS_MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid HRIS_MAX_RETRIES: %w", err)
	}

	retryDelay, err := time.ParseDuration(getEnv("HRIS_RETRY_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HRIS_RETRY_DELAY: %w", err)
	}

	config.API = APIConfig{
		BaseURL:    getEnv("HRIS_BASE_URL", ""),
		Timeout:    timeout,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
	}

	// Logging configuration
	config.Log = LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Pretty: getEnv("LOG_PRETTY", "true") == "true",
	}

	// Cache configuration
	cacheDir, err := defaultCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}

	config.Cache = CacheConfig{
		TokenPath:  getEnv("HRIS_TOKEN_PATH", filepath.Join(cacheDir, "token")),
		BranchPath: getEnv("HRIS_BRANCH_PATH", filepath.Join(cacheDir, "branch")),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration. A missing base URL is a warning,
// not an error: every request will fail with a clear message, which beats
// refusing to start.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		log.Println("warning: HRIS_BASE_URL is not set, requests will fail")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("HRIS_MAX_RETRIES must not be negative")
	}
	if c.Cache.TokenPath == "" {
		return fmt.Errorf("HRIS_TOKEN_PATH is required")
	}
	return nil
}

func defaultCacheDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "hris"), nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
