// Package config loads engine configuration from YAML with environment
// overrides. Precedence is env > file > defaults; every field has a
// usable default so the binary runs with no config file at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/connector"
)

// Config is the full runtime configuration.
type Config struct {
	Addr         string          `yaml:"addr"`
	DBPath       string          `yaml:"db_path"`
	CrossRefPath string          `yaml:"crossref_path"`
	Connectors   ConnectorConfig `yaml:"connectors"`
	Log          LogConfig       `yaml:"log"`
}

// ConnectorConfig points the source connectors at their upstreams.
// Base URLs are overridable so tests and air-gapped deployments can
// target local fixtures.
type ConnectorConfig struct {
	USBaseURL      string `yaml:"us_base_url"`
	EUBaseURL      string `yaml:"eu_base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig selects the logger build. Mode is "production" or
// "development".
type LogConfig struct {
	Mode string `yaml:"mode"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:         ":8080",
		DBPath:       "regtrace.db",
		CrossRefPath: "",
		Connectors: ConnectorConfig{
			USBaseURL:      connector.DefaultUSBaseURL,
			EUBaseURL:      connector.DefaultEUBaseURL,
			TimeoutSeconds: int(connector.DefaultTimeout / time.Second),
		},
		Log: LogConfig{Mode: "production"},
	}
}

// Load reads the YAML file at path, layers environment overrides on
// top, and validates the result. An empty path skips the file and uses
// defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("REGENGINE_ADDR", &c.Addr)
	setString("REGENGINE_DB", &c.DBPath)
	setString("REGENGINE_CROSSREF", &c.CrossRefPath)
	setString("REGENGINE_US_BASE_URL", &c.Connectors.USBaseURL)
	setString("REGENGINE_EU_BASE_URL", &c.Connectors.EUBaseURL)
	setString("REGENGINE_LOG_MODE", &c.Log.Mode)

	if v, ok := os.LookupEnv("REGENGINE_TIMEOUT_SECONDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REGENGINE_TIMEOUT_SECONDS: %w", err)
		}
		c.Connectors.TimeoutSeconds = n
	}
	return nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.Connectors.TimeoutSeconds <= 0 {
		return fmt.Errorf("connector timeout must be positive, got %d", c.Connectors.TimeoutSeconds)
	}
	if c.Log.Mode != "production" && c.Log.Mode != "development" {
		return fmt.Errorf("log mode %q: must be production or development", c.Log.Mode)
	}
	return nil
}

// Timeout returns the connector timeout as a duration.
func (c ConnectorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NewLogger builds the process logger for the configured mode.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	if c.Mode == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
