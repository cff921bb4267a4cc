package config

import (
	"strings"
	"testing"
)

// clearEnv makes sure a developer's shell does not leak into the tests
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}
}

func TestLoadValidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_DIR", "/var/log/switch")
	t.Setenv("LOG_RETENTION_WEEKS", "8")
	t.Setenv("DRUG_TABLE_PATH", "tables/aapp.csv")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/switch.prom")
	t.Setenv("METRICS_FLUSH_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Env != EnvProduction {
		t.Errorf("Expected env prod, got %s", cfg.Env)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.LogDir != "/var/log/switch" {
		t.Errorf("Expected log dir /var/log/switch, got %s", cfg.LogDir)
	}
	if cfg.LogRetentionWeeks != 8 {
		t.Errorf("Expected 8 retention weeks, got %d", cfg.LogRetentionWeeks)
	}
	if cfg.DrugTablePath != "tables/aapp.csv" {
		t.Errorf("Expected drug table path tables/aapp.csv, got %s", cfg.DrugTablePath)
	}
	if cfg.MetricsTextfile != "/var/lib/node_exporter/switch.prom" {
		t.Errorf("Unexpected metrics textfile %s", cfg.MetricsTextfile)
	}
	if cfg.MetricsFlushSeconds != 30 {
		t.Errorf("Expected 30 flush seconds, got %d", cfg.MetricsFlushSeconds)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "" {
		t.Errorf("Expected empty default log level, got %s", cfg.LogLevel)
	}
	if cfg.LogDir != "logs" {
		t.Errorf("Expected default log dir logs, got %s", cfg.LogDir)
	}
	if cfg.LogRetentionWeeks != 4 {
		t.Errorf("Expected default 4 retention weeks, got %d", cfg.LogRetentionWeeks)
	}
	if cfg.MaxLogFileSize != 104857600 {
		t.Errorf("Expected default 100MB log file size, got %d", cfg.MaxLogFileSize)
	}
	if cfg.DrugTablePath != "" {
		t.Errorf("Expected embedded table by default, got %s", cfg.DrugTablePath)
	}
	if cfg.MetricsTextfile != "" {
		t.Errorf("Expected metrics export disabled by default, got %s", cfg.MetricsTextfile)
	}
	if cfg.MetricsFlushSeconds != 60 {
		t.Errorf("Expected default 60 flush seconds, got %d", cfg.MetricsFlushSeconds)
	}
}

func TestInvalidValues(t *testing.T) {
	testCases := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{"unknown env", "ENV", "qa", "ENV must be one of"},
		{"unknown log level", "LOG_LEVEL", "verbose", "LOG_LEVEL must be one of"},
		{"zero retention", "LOG_RETENTION_WEEKS", "0", "LOG_RETENTION_WEEKS must be positive"},
		{"retention over a year", "LOG_RETENTION_WEEKS", "53", "too large (max 52 weeks)"},
		{"tiny log files", "MAX_LOG_FILE_SIZE", "1024", "too small (min 1MB)"},
		{"huge log files", "MAX_LOG_FILE_SIZE", "2147483648", "too large (max 1GB)"},
		{"json table", "DRUG_TABLE_PATH", "drugs.json", "unsupported table file extension"},
		{"metrics without prom suffix", "METRICS_TEXTFILE", "/tmp/switch.txt", "must end in .prom"},
		{"flush too often", "METRICS_FLUSH_SECONDS", "1", "between 5 and 3600"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %q", tc.expected, err.Error())
			}
		})
	}
}

func TestEnvIsCaseInsensitive(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "Staging")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Env != EnvStaging {
		t.Errorf("Expected env staging, got %s", cfg.Env)
	}
}

func TestNonNumericValuesFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_RETENTION_WEEKS", "four")
	t.Setenv("METRICS_FLUSH_SECONDS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.LogRetentionWeeks != 4 {
		t.Errorf("Expected default retention weeks, got %d", cfg.LogRetentionWeeks)
	}
	if cfg.MetricsFlushSeconds != 60 {
		t.Errorf("Expected default flush seconds, got %d", cfg.MetricsFlushSeconds)
	}
}

func TestValidateTablePath(t *testing.T) {
	valid := []string{"", "drugs.csv", "DRUGS.CSV", "drugs.tsv", "drugs.txt", "drugs.yaml", "dir/drugs.yml"}
	for _, path := range valid {
		if err := ValidateTablePath(path); err != nil {
			t.Errorf("ValidateTablePath(%q) returned %v", path, err)
		}
	}

	invalid := []string{"drugs", "drugs.xlsx", "drugs.csv.bak"}
	for _, path := range invalid {
		if err := ValidateTablePath(path); err == nil {
			t.Errorf("ValidateTablePath(%q) expected error", path)
		}
	}
}
