package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/SamuelRCrider/redact-go/core"
)

// Config holds settings for the redaction MCP server
type Config struct {
	Name          string          `yaml:"name"`
	Version       string          `yaml:"version"`
	LogLevel      string          `yaml:"log_level"`
	MaxInputBytes int             `yaml:"max_input_bytes"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
	Audit         AuditConfig     `yaml:"audit"`
}

// RateLimitConfig limits tool calls per client id
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

// AuditConfig controls the JSON Lines audit trail
type AuditConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	Level         string `yaml:"level"`
	RotationSize  int64  `yaml:"rotation_size"`
	RetentionDays int    `yaml:"retention_days"`
	Console       bool   `yaml:"console"`
}

// toCore converts to the audit logger settings
func (a AuditConfig) toCore() core.AuditConfig {
	return core.AuditConfig{
		Path:          a.Path,
		Level:         core.AuditLogLevel(a.Level),
		RotationSize:  a.RotationSize,
		RetentionDays: a.RetentionDays,
		Console:       a.Console,
	}
}

// Environment variables that override file settings
const (
	EnvConfigPath    = "REDACT_CONFIG"
	EnvLogLevel      = "REDACT_LOG_LEVEL"
	EnvAuditPath     = "REDACT_AUDIT_PATH"
	EnvAuditLevel    = "REDACT_AUDIT_LEVEL"
	EnvMaxInputBytes = "REDACT_MAX_INPUT_BYTES"
)

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Name:          "redact",
		Version:       "0.1.0",
		LogLevel:      "info",
		MaxInputBytes: 1 << 20,
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Audit: AuditConfig{
			Enabled:       true,
			Path:          "audit.log",
			Level:         string(core.AuditLogLevelStandard),
			RotationSize:  100 * 1024 * 1024,
			RetentionDays: 90,
		},
	}
}

// LoadConfig reads a YAML file over the defaults, then applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnv(config *Config) error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		config.LogLevel = level
	}
	if auditPath := os.Getenv(EnvAuditPath); auditPath != "" {
		config.Audit.Path = auditPath
	}
	if auditLevel := os.Getenv(EnvAuditLevel); auditLevel != "" {
		config.Audit.Level = auditLevel
	}
	if maxBytes := os.Getenv(EnvMaxInputBytes); maxBytes != "" {
		n, err := strconv.Atoi(maxBytes)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxInputBytes, maxBytes, err)
		}
		config.MaxInputBytes = n
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("server name must not be empty")
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.MaxInputBytes < 0 {
		return fmt.Errorf("max_input_bytes must not be negative")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests_per_minute must be positive when rate limiting is enabled")
	}
	if c.Audit.Enabled {
		if c.Audit.Path == "" {
			return fmt.Errorf("audit path must not be empty when audit is enabled")
		}
		if !core.AuditLogLevel(c.Audit.Level).Valid() {
			return fmt.Errorf("invalid audit level %q", c.Audit.Level)
		}
	}
	return nil
}

// SaveConfig writes the configuration as YAML
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
