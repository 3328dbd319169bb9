// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidPerPage is returned when HH_PER_PAGE is not positive.
	ErrInvalidPerPage = errors.New("config: HH_PER_PAGE must be positive")
	// ErrInvalidPageLimit is returned when HH_PAGE_LIMIT is not positive.
	ErrInvalidPageLimit = errors.New("config: HH_PAGE_LIMIT must be positive")
	// ErrInvalidRequestTimeout is returned when HH_REQUEST_TIMEOUT is negative.
	ErrInvalidRequestTimeout = errors.New("config: HH_REQUEST_TIMEOUT must not be negative")
	// ErrDataFileRequired is returned when DATA_FILE is set to an empty value.
	ErrDataFileRequired = errors.New("config: DATA_FILE is required")
	// ErrHarvestKeywordRequired is returned when a schedule is set without a keyword.
	ErrHarvestKeywordRequired = errors.New("config: HARVEST_KEYWORD is required when HARVEST_SCHEDULE is set")
)

// DefaultEnvFile is read before the environment is processed, when present.
const DefaultEnvFile = ".env"

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port               int      `env:"PORT, default=8080" json:"port"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*" json:"cors_allowed_origins"` // comma-separated

	// Listing endpoint settings
	HHBaseURL        string        `env:"HH_BASE_URL, default=https://api.hh.ru/vacancies" json:"hh_base_url"`
	HHUserAgent      string        `env:"HH_USER_AGENT, default=HH-User-Agent" json:"hh_user_agent"`
	HHPerPage        int           `env:"HH_PER_PAGE, default=100" json:"hh_per_page"`
	HHPageLimit      int           `env:"HH_PAGE_LIMIT, default=20" json:"hh_page_limit"`
	HHRequestTimeout time.Duration `env:"HH_REQUEST_TIMEOUT, default=30s" json:"hh_request_timeout"` // 0 disables the timeout

	// Storage settings
	DataFile string `env:"DATA_FILE, default=data/vacancies.json" json:"data_file"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Key              string `env:"S3_KEY, default=vacancies.json" json:"s3_key,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Optional periodic harvest
	HarvestSchedule string `env:"HARVEST_SCHEDULE" json:"harvest_schedule,omitempty"`
	HarvestKeyword  string `env:"HARVEST_KEYWORD" json:"harvest_keyword,omitempty"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// SchedulerEnabled returns true if a periodic harvest is configured.
func (c *Config) SchedulerEnabled() bool {
	return c.HarvestSchedule != ""
}

// DocumentPath returns DataFile as an absolute path.
func (c *Config) DocumentPath() (string, error) {
	path, err := filepath.Abs(c.DataFile)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", c.DataFile, err)
	}
	return path, nil
}

// Load reads DefaultEnvFile when it exists, then processes environment
// variables using go-envconfig and validates the result. Variables already
// set in the environment win over the file.
func Load() (*Config, error) {
	return LoadWithEnvFile(DefaultEnvFile)
}

// LoadWithEnvFile is Load with an explicit dotenv path.
func LoadWithEnvFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if c.HHPerPage <= 0 {
		return ErrInvalidPerPage
	}
	if c.HHPageLimit <= 0 {
		return ErrInvalidPageLimit
	}
	if c.HHRequestTimeout < 0 {
		return ErrInvalidRequestTimeout
	}
	if !c.S3Enabled() && c.DataFile == "" {
		return ErrDataFileRequired
	}
	if c.SchedulerEnabled() && strings.TrimSpace(c.HarvestKeyword) == "" {
		return ErrHarvestKeywordRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, HHBaseURL: %s, HHPerPage: %d, HHPageLimit: %d, HHRequestTimeout: %s, DataFile: %s, S3Bucket: %s, S3Region: %s, S3Key: %s, HarvestSchedule: %q, HarvestKeyword: %q, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.HHBaseURL,
		c.HHPerPage,
		c.HHPageLimit,
		c.HHRequestTimeout,
		c.DataFile,
		c.S3Bucket,
		c.S3Region,
		c.S3Key,
		c.HarvestSchedule,
		c.HarvestKeyword,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
