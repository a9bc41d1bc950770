// Package config handles loading and validating prwarden configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var configValidator = validator.New()

// Config is the root configuration structure.
type Config struct {
	// TicketPrefix is the tracker project code expected at the start of
	// every PR title (e.g. "WT" for titles like "WT-4821 Fix ...").
	TicketPrefix string `yaml:"ticket_prefix" validate:"required,alphanum"`

	// Tracker configures the issue-tracker connection.
	Tracker TrackerConfig `yaml:"tracker"`

	// Notify configures the two notification channels.
	Notify NotifyConfig `yaml:"notify"`

	// SmeGroups configures the component -> member-group mapping resource.
	SmeGroups SmeGroupsConfig `yaml:"sme_groups"`
}

// TrackerConfig holds issue-tracker settings. Reads are unauthenticated.
type TrackerConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"`
}

// NotifyConfig holds the notification webhook URLs. An empty URL
// downgrades that channel to log output.
type NotifyConfig struct {
	TeamWebhookURL  string `yaml:"team_webhook_url" validate:"omitempty,url"`
	DebugWebhookURL string `yaml:"debug_webhook_url" validate:"omitempty,url"`
}

// SmeGroupsConfig locates the SME mapping file inside the repository.
type SmeGroupsConfig struct {
	Path string `yaml:"path"`
}

// Load reads a config file from the given path, expands environment
// variables, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses raw YAML config content.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := configValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns a config with only the defaults applied. Used when no
// config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/prwarden.yaml",
		".github/prwarden.yml",
		".prwarden.yaml",
		".prwarden.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.TicketPrefix == "" {
		c.TicketPrefix = "WT"
	}
	if c.SmeGroups.Path == "" {
		c.SmeGroups.Path = ".github/prwarden-groups.yaml"
	}
}
