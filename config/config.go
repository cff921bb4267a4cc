// Package config has the configuration for the switching tool
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment is the deployment environment the tool runs in
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

var validEnvs = []Environment{EnvDevelopment, EnvStaging, EnvProduction, EnvTest}

// Extensions accepted for DRUG_TABLE_PATH
var supportedTableExtensions = []string{".csv", ".tsv", ".txt", ".yaml", ".yml"}

// Config holds all application configuration
type Config struct {
	Env                 Environment
	LogLevel            string // Empty means the environment default
	LogDir              string
	LogRetentionWeeks   int   // Number of weeks to keep log files
	MaxLogFileSize      int64 // Maximum log file size in bytes
	DrugTablePath       string // Empty means the embedded table
	MetricsTextfile     string // Empty disables the metrics export
	MetricsFlushSeconds int
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:                 Environment(strings.ToLower(getEnvWithDefault("ENV", string(EnvDevelopment)))),
		LogLevel:            strings.ToLower(os.Getenv("LOG_LEVEL")),
		LogDir:              getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks:   getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:      getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		DrugTablePath:       strings.TrimSpace(os.Getenv("DRUG_TABLE_PATH")),
		MetricsTextfile:     strings.TrimSpace(os.Getenv("METRICS_TEXTFILE")),
		MetricsFlushSeconds: getIntEnvWithDefault("METRICS_FLUSH_SECONDS", 60),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks every configuration value
func (cfg *Config) Validate() error {
	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if strings.TrimSpace(cfg.LogDir) == "" {
		return fmt.Errorf("invalid LOG_DIR: LOG_DIR cannot be empty")
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := ValidateTablePath(cfg.DrugTablePath); err != nil {
		return fmt.Errorf("invalid DRUG_TABLE_PATH: %w", err)
	}

	if err := validateMetricsTextfile(cfg.MetricsTextfile); err != nil {
		return fmt.Errorf("invalid METRICS_TEXTFILE: %w", err)
	}

	if err := validateFlushSeconds(cfg.MetricsFlushSeconds); err != nil {
		return fmt.Errorf("invalid METRICS_FLUSH_SECONDS: %w", err)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env Environment) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return nil
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// ValidateTablePath checks the extension of a drug table path.
// An empty path selects the embedded table and is valid.
func ValidateTablePath(path string) error {
	if path == "" {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range supportedTableExtensions {
		if ext == supported {
			return nil
		}
	}

	return fmt.Errorf("unsupported table file extension %q, expected one of: %v", ext, supportedTableExtensions)
}

// validateMetricsTextfile validates the METRICS_TEXTFILE environment variable
func validateMetricsTextfile(path string) error {
	if path == "" {
		return nil
	}

	// node_exporter's textfile collector only reads *.prom files
	if !strings.HasSuffix(path, ".prom") {
		return fmt.Errorf("METRICS_TEXTFILE must end in .prom, got: %s", path)
	}

	return nil
}

// validateFlushSeconds validates the METRICS_FLUSH_SECONDS environment variable
func validateFlushSeconds(seconds int) error {
	if seconds < 5 || seconds > 3600 {
		return fmt.Errorf("METRICS_FLUSH_SECONDS must be between 5 and 3600, got: %d", seconds)
	}
	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"DRUG_TABLE_PATH",
		"METRICS_TEXTFILE",
		"METRICS_FLUSH_SECONDS",
	}
}
