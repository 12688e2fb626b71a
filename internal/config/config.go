// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// HTTP
	Port               string
	RateLimitPerMinute int
	VerifyTimeout      time.Duration

	// Logging
	LogLevel string

	// Job runner
	ApifyToken   string
	ApifyBaseURL string
	ActorsConfig string

	// Database
	DatabasePath string

	// Submissions
	RescanCooldown time.Duration
	CreditPerPost  int

	// Evidence storage (optional)
	EvidenceBucket        string
	EvidencePrefix        string
	S3Region              string
	S3Endpoint            string
	S3AccessKey           string
	S3SecretKey           string
	EvidencePublicBaseURL string
}

// Load reads configuration from environment variables.
// It loads a .env file first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "3000"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		ApifyToken:            getEnv("APIFY_API_TOKEN", ""),
		ApifyBaseURL:          getEnv("APIFY_BASE_URL", "https://api.apify.com"),
		ActorsConfig:          getEnv("ACTORS_CONFIG", "config/actors.yaml"),
		DatabasePath:          getEnv("DATABASE_PATH", "data/postproof.db"),
		EvidenceBucket:        getEnv("EVIDENCE_BUCKET", ""),
		EvidencePrefix:        getEnv("EVIDENCE_PREFIX", ""),
		S3Region:              getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:            getEnv("S3_ENDPOINT", ""),
		S3AccessKey:           getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:           getEnv("S3_SECRET_KEY", ""),
		EvidencePublicBaseURL: getEnv("EVIDENCE_PUBLIC_BASE_URL", ""),
	}

	var err error
	cfg.VerifyTimeout, err = time.ParseDuration(getEnv("VERIFY_TIMEOUT", "120s"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFY_TIMEOUT: %w", err)
	}

	cfg.RescanCooldown, err = time.ParseDuration(getEnv("RESCAN_COOLDOWN", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESCAN_COOLDOWN: %w", err)
	}

	cfg.CreditPerPost, err = strconv.Atoi(getEnv("CREDIT_PER_POST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid CREDIT_PER_POST: %w", err)
	}

	cfg.RateLimitPerMinute, err = strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	return cfg, nil
}

// Validate checks values every command relies on.
func (c *Config) Validate() error {
	if c.VerifyTimeout <= 0 {
		return fmt.Errorf("VERIFY_TIMEOUT must be positive")
	}
	if c.ApifyBaseURL == "" {
		return fmt.Errorf("APIFY_BASE_URL is required")
	}
	return nil
}

// ValidateForVerify checks configuration needed to run a verification.
func (c *Config) ValidateForVerify() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ApifyToken == "" {
		return fmt.Errorf("APIFY_API_TOKEN is required for verification")
	}
	return nil
}

// ValidateForServe checks configuration needed for the HTTP server. The
// job runner token is checked lazily on first verification.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT: %s", c.Port)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.CreditPerPost < 0 {
		return fmt.Errorf("CREDIT_PER_POST must not be negative")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}
	return nil
}

// EvidenceEnabled reports whether verification results are archived.
func (c *Config) EvidenceEnabled() bool {
	return c.EvidenceBucket != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
