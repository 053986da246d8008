// ABOUTME: Configuration loading and parsing for intent-gateway
// ABOUTME: Supports YAML files with environment variable expansion and optional .env loading

package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete intent-gateway configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	CRM      CRMConfig      `yaml:"crm"`
	Fallback FallbackConfig `yaml:"fallback"`
	Router   RouterConfig   `yaml:"router"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CRMConfig holds the notification channel credential and endpoint.
// APIKey is normally written as ${CRM_API_KEY} so the secret stays in the
// environment; WebhookURL empty selects simulated delivery.
type CRMConfig struct {
	APIKey     string `yaml:"api_key"`
	WebhookURL string `yaml:"webhook_url"`
}

// FallbackConfig holds knowledge-base matching configuration
type FallbackConfig struct {
	// MinScore is the strict acceptance threshold (score must exceed it).
	// Zero means the built-in default of 85.
	MinScore int `yaml:"min_score"`
}

// RouterConfig holds intent routing behavior flags
type RouterConfig struct {
	// LeadCaptureSurfacesFailure makes the lead-capture reply branch on the
	// notification result instead of always acknowledging.
	LeadCaptureSurfacesFailure bool `yaml:"lead_capture_surfaces_failure"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// A .env file in the working directory is loaded first when present, so
// ${VAR_NAME} references in the YAML can resolve secrets kept out of the file.
func Load(path string) (*Config, error) {
	// Optional; a missing .env is not an error
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Fallback.MinScore < 0 || c.Fallback.MinScore > 100 {
		return fmt.Errorf("fallback.min_score must be between 0 and 100, got %d", c.Fallback.MinScore)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	return nil
}
