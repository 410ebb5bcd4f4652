package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gmahli/fsaas/core/metrics"
	"github.com/gmahli/fsaas/core/sim"
)

// Config is the top-level service configuration.
type Config struct {
	API      APIConfig        `json:"api"`
	Auth     AuthConfig       `json:"auth"`
	Engine   sim.EngineConfig `json:"engine"`
	Scenario sim.RunnerConfig `json:"scenario"`
	Metrics  metrics.Config   `json:"metrics"`
	Settings SystemSettings   `json:"settings"`
}

// APIConfig holds the HTTP listener settings.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// AuthConfig locates the persisted session snapshot.
type AuthConfig struct {
	SessionPath string `json:"session_path"`
}

// SetDefaults applies sane defaults.
func (c *AuthConfig) SetDefaults() {
	if c.SessionPath == "" {
		c.SessionPath = "fsaas-session.json"
	}
}

// Load reads the configuration from a JSON or YAML file with optional
// environment overrides (K_ prefix, __ as the key separator).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a fully defaulted configuration, used when no file is
// given (the service is self-contained in demo mode).
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.API.SetDefaults()
	c.Auth.SetDefaults()
	c.Engine.SetDefaults()
	c.Scenario.SetDefaults()
	c.Metrics.SetDefaults()
	c.Settings.SetDefaults()
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Engine.AlertProbability < 0 || c.Engine.AlertProbability > 1 {
		return fmt.Errorf("engine alert_probability must be in [0,1]")
	}
	if c.Metrics.InfluxEnabled && c.Metrics.InfluxURL == "" {
		return fmt.Errorf("influx_url is required when influx is enabled")
	}
	return c.Settings.Validate()
}
