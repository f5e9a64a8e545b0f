// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads and watches the server's YAML configuration: network
// binding, logging, the capability registry source, the prompt store, the
// market-data provider, and inline steering rules.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/traylinx/marketmind/internal/realtime"
	"github.com/traylinx/marketmind/internal/steering"
)

// Config is the application configuration, loaded from a YAML file.
type Config struct {
	// Host is the network interface the API server binds. Empty binds all
	// interfaces.
	Host string `yaml:"host" json:"-"`
	// Port is the API server port.
	Port int `yaml:"port" json:"-"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile writes logs to rotating files instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// Registry configures the remote model-capability source.
	Registry RegistryConfig `yaml:"registry" json:"registry"`

	// PromptStore configures the external persona-prompt store.
	PromptStore PromptStoreConfig `yaml:"prompt-store" json:"prompt-store"`

	// MarketData configures the market-data provider used by the earnings
	// and news agents.
	MarketData MarketDataConfig `yaml:"market-data" json:"market-data"`

	// Session is the market session window used by real-time detection.
	Session realtime.Session `yaml:"market-session" json:"market-session"`

	// HooksDir is the directory of automation hook files.
	HooksDir string `yaml:"hooks-dir" json:"hooks-dir"`

	// SteeringDir is the directory of steering rule files.
	SteeringDir string `yaml:"steering-dir" json:"steering-dir"`

	// SteeringRules are inline steering rules, applied on top of the
	// directory-loaded ones.
	SteeringRules []steering.Rule `yaml:"steering-rules" json:"steering-rules"`
}

// RegistryConfig points at the remote model-capability endpoint.
type RegistryConfig struct {
	// URL of the capability endpoint. Empty uses the built-in defaults only.
	URL string `yaml:"url" json:"url"`
	// TimeoutSeconds bounds each registry fetch.
	TimeoutSeconds int `yaml:"timeout-seconds" json:"timeout-seconds"`
	// RefreshMinutes is the periodic refresh interval; 0 disables it.
	RefreshMinutes int `yaml:"refresh-minutes" json:"refresh-minutes"`
	// ModelOverrides toggles models on or off by id without touching the
	// upstream source.
	ModelOverrides map[string]bool `yaml:"model-overrides" json:"model-overrides"`
}

// PromptStoreConfig points at the persona-prompt endpoint.
type PromptStoreConfig struct {
	URL            string `yaml:"url" json:"url"`
	APIKey         string `yaml:"api-key" json:"-"`
	TimeoutSeconds int    `yaml:"timeout-seconds" json:"timeout-seconds"`
}

// MarketDataConfig points at an FMP-compatible market-data API.
type MarketDataConfig struct {
	URL            string `yaml:"url" json:"url"`
	APIKey         string `yaml:"api-key" json:"-"`
	TimeoutSeconds int    `yaml:"timeout-seconds" json:"timeout-seconds"`
}

// Default fills a config with usable defaults for local development.
func Default() *Config {
	return &Config{
		Port: 8317,
		Registry: RegistryConfig{
			TimeoutSeconds: 10,
		},
		PromptStore: PromptStoreConfig{TimeoutSeconds: 10},
		MarketData: MarketDataConfig{
			URL:            "https://financialmodelingprep.com",
			TimeoutSeconds: 10,
		},
		Session: realtime.DefaultSession(),
	}
}

// Load reads and parses the YAML configuration at path, applying defaults
// for absent fields. Environment variables expand inside the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config %s: invalid port %d", path, cfg.Port)
	}
	if cfg.Session.Timezone == "" {
		cfg.Session = realtime.DefaultSession()
	}
	return cfg, nil
}

// RegistryTimeout returns the registry fetch timeout as a duration.
func (c *Config) RegistryTimeout() time.Duration {
	if c.Registry.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Registry.TimeoutSeconds) * time.Second
}

// PromptStoreTimeout returns the prompt-store fetch timeout as a duration.
func (c *Config) PromptStoreTimeout() time.Duration {
	if c.PromptStore.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.PromptStore.TimeoutSeconds) * time.Second
}

// MarketDataTimeout returns the market-data fetch timeout as a duration.
func (c *Config) MarketDataTimeout() time.Duration {
	if c.MarketData.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.MarketData.TimeoutSeconds) * time.Second
}
