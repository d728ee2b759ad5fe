package llm

import (
	"fmt"
	"os"
	"strconv"
)

// Provider selects the Service implementation wired at startup.
const (
	ProviderOpenAI   = "openai"
	ProviderScripted = "scripted"
)

// Config holds language-model provider parameters.
type Config struct {
	Provider    string  `toml:"provider"`
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			if t, err := strconv.ParseFloat(v, 64); err == nil {
				c.Temperature = t
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for provider %q", c.Provider)
		}
	case ProviderScripted:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}
