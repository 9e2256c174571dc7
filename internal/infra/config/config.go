// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Poll    PollConfig    `yaml:"poll"`
	Youtube YoutubeConfig `yaml:"youtube"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080"`
}

// StoreConfig represents queue store backend configuration.
type StoreConfig struct {
	Type     string         `yaml:"type" default:"memory" validate:"oneof=memory redis"`
	Settings map[string]any `yaml:"settings"`
}

// RedisSettings represents settings for the redis backend.
type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PollConfig represents snapshot polling configuration.
type PollConfig struct {
	IntervalMs int `yaml:"interval_ms" default:"5000" validate:"gte=250,lte=600000"`
}

// Interval returns the poll interval as a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMs) * time.Millisecond
}

// YoutubeConfig represents video title resolution configuration.
type YoutubeConfig struct {
	TimeoutMs int `yaml:"timeout_ms" default:"10000" validate:"gte=100,lte=60000"`
}

// Timeout returns the title fetch timeout as a duration.
func (y YoutubeConfig) Timeout() time.Duration {
	return time.Duration(y.TimeoutMs) * time.Millisecond
}

// Load loads configuration from a YAML file. An empty path yields the
// built-in defaults. Environment variables take precedence over file values
// for sensitive fields.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.setStoreSetting("addr", v)
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.setStoreSetting("password", v)
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.setStoreSetting("db", db)
		}
	}
}

func (c *Config) setStoreSetting(key string, value any) {
	if c.Store.Settings == nil {
		c.Store.Settings = make(map[string]any)
	}
	c.Store.Settings[key] = value
}

// RedisSettings decodes the store settings map for the redis backend.
func (c *Config) RedisSettings() (*RedisSettings, error) {
	settings := RedisSettings{Addr: "localhost:6379"}
	if c.Store.Settings != nil {
		if err := mapstructure.Decode(c.Store.Settings, &settings); err != nil {
			return nil, errors.Wrap(err, "failed to decode redis settings")
		}
		if settings.Addr == "" {
			settings.Addr = "localhost:6379"
		}
	}
	return &settings, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Store.Type == "redis" {
		if _, err := c.RedisSettings(); err != nil {
			return err
		}
	}

	return nil
}
