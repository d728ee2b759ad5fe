// Package config loads the worker configuration from TOML files with
// environment-specific overlays and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/fieldgate/loa-worker/internal/llm"
	"github.com/fieldgate/loa-worker/internal/pipeline"
	"github.com/fieldgate/loa-worker/pkg/database"
	"github.com/fieldgate/loa-worker/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLoaEnv             = "LOA_ENV"
	EnvLoaShutdownTimeout = "LOA_SHUTDOWN_TIMEOUT"
	EnvLoaVersion         = "LOA_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "LOA_DB_HOST",
	Port:            "LOA_DB_PORT",
	Name:            "LOA_DB_NAME",
	User:            "LOA_DB_USER",
	Password:        "LOA_DB_PASSWORD",
	SSLMode:         "LOA_DB_SSL_MODE",
	ConnMaxLifetime: "LOA_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LOA_DB_CONN_TIMEOUT",
}

var outboxEnv = &storage.Env{
	Enabled:          "LOA_OUTBOX_ENABLED",
	ContainerName:    "LOA_OUTBOX_CONTAINER_NAME",
	ConnectionString: "LOA_OUTBOX_CONNECTION_STRING",
}

var agentEnv = &llm.Env{
	Provider:    "LOA_AGENT_PROVIDER",
	BaseURL:     "LOA_AGENT_BASE_URL",
	APIKey:      "LOA_AGENT_API_KEY",
	Model:       "LOA_AGENT_MODEL",
	Temperature: "LOA_AGENT_TEMPERATURE",
}

// Config is the root configuration for the LoA worker.
type Config struct {
	Database        database.Config       `toml:"database"`
	Outbox          storage.Config        `toml:"outbox"`
	Agent           llm.Config            `toml:"agent"`
	Filter          pipeline.FilterConfig `toml:"filter"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the LOA_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLoaEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Database.Merge(&overlay.Database)
	c.Outbox.Merge(&overlay.Outbox)
	c.Agent.Merge(&overlay.Agent)
	if len(overlay.Filter.SpamKeywords) > 0 {
		c.Filter.SpamKeywords = overlay.Filter.SpamKeywords
	}
	if len(overlay.Filter.RelevantKeywords) > 0 {
		c.Filter.RelevantKeywords = overlay.Filter.RelevantKeywords
	}
	if len(overlay.Filter.BlacklistDomains) > 0 {
		c.Filter.BlacklistDomains = overlay.Filter.BlacklistDomains
	}
	if len(overlay.Filter.WhitelistDomains) > 0 {
		c.Filter.WhitelistDomains = overlay.Filter.WhitelistDomains
	}
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Outbox.Finalize(outboxEnv); err != nil {
		return fmt.Errorf("outbox: %w", err)
	}
	if err := c.Agent.Finalize(agentEnv); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLoaShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLoaVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvLoaEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
