// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	History       HistoryConfig       `yaml:"history"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string          `yaml:"host"`
	Port         int             `yaml:"port"`
	ReadTimeout  time.Duration   `yaml:"read_timeout"`
	WriteTimeout time.Duration   `yaml:"write_timeout"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines API rate limiting settings.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// DatabaseConfig defines the SQLite history file settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// HistoryConfig defines history log behavior.
type HistoryConfig struct {
	Cap               int           `yaml:"cap"`
	SaveDebounce      time.Duration `yaml:"save_debounce"`
	RetentionInterval time.Duration `yaml:"retention_interval"`
}

// PricingConfig defines calculator defaults.
type PricingConfig struct {
	DefaultPriceAddition float64 `yaml:"default_price_addition"`
	DefaultMarketMax     float64 `yaml:"default_market_max"`
}

// NotificationsConfig defines notification targets for loss alerts.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyHistoryDefaults(&cfg.History)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 20.0
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 40
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Path == "" {
		d.Path = "shop-pricer.db"
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Cap == 0 {
		h.Cap = 50
	}
	if h.SaveDebounce == 0 {
		h.SaveDebounce = 2 * time.Second
	}
	if h.RetentionInterval == 0 {
		h.RetentionInterval = time.Hour
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be 1-65535 (got %d)", cfg.Server.Port))
	}

	if cfg.History.Cap < 1 {
		errs = append(errs, fmt.Errorf("history.cap must be positive (got %d)", cfg.History.Cap))
	}

	// The debounce window is a UX contract: shorter loses keystrokes to
	// premature saves, longer feels like nothing was saved at all.
	if cfg.History.SaveDebounce < 1500*time.Millisecond ||
		cfg.History.SaveDebounce > 3*time.Second {
		errs = append(errs, fmt.Errorf(
			"history.save_debounce must be between 1.5s and 3s (got %s)",
			cfg.History.SaveDebounce,
		))
	}

	if cfg.History.RetentionInterval < time.Minute {
		errs = append(errs, fmt.Errorf(
			"history.retention_interval must be at least 1m (got %s)",
			cfg.History.RetentionInterval,
		))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf(
			"notifications.discord.webhook_url is required when discord is enabled",
		))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf(
			"logging.level must be one of: debug, info, warn, error (got %q)",
			cfg.Logging.Level,
		))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf(
			"logging.format must be text or json (got %q)",
			cfg.Logging.Format,
		))
	}

	return errors.Join(errs...)
}
