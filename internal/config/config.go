// Package config loads and validates collector configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/finknottle/vc-events-collector/internal/event"
)

// Config captures all collector configuration knobs loaded via Viper.
type Config struct {
	Sources []event.Source `mapstructure:"sources"`
	Fetch   FetchConfig    `mapstructure:"fetch"`
	Output  OutputConfig   `mapstructure:"output"`
	Gmail   GmailConfig    `mapstructure:"gmail"`
	Logging LoggingConfig  `mapstructure:"logging"`
}

// FetchConfig governs both the static and the rendered fetch paths.
type FetchConfig struct {
	UserAgent         string  `mapstructure:"user_agent"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	NavTimeoutSeconds int     `mapstructure:"nav_timeout_seconds"`
	SettleMs          int     `mapstructure:"settle_ms"`
	ProfileSettleMs   int     `mapstructure:"profile_settle_ms"`
	DomainQPS         float64 `mapstructure:"domain_qps"`
}

// OutputConfig sets where the dataset is written wholesale each run.
type OutputConfig struct {
	Paths []string `mapstructure:"paths"`
}

// GmailConfig controls the inbox link harvester. The harvester is disabled,
// not failed, when either path is empty.
type GmailConfig struct {
	CredentialsPath string `mapstructure:"credentials_path"`
	TokenPath       string `mapstructure:"token_path"`
	MaxMessages     int    `mapstructure:"max_messages"`
	Query           string `mapstructure:"query"`
	IncludeDebug    bool   `mapstructure:"include_debug"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// DefaultUserAgent identifies the collector to the sites it visits.
const DefaultUserAgent = "Mozilla/5.0 (compatible; BayAreaVCEventsBot/0.3; +https://github.com/finknottle/bay-area-vc-events)"

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COLLECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing file just means defaults plus environment; a broken
			// file is an error.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.user_agent", DefaultUserAgent)
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("fetch.nav_timeout_seconds", 45)
	v.SetDefault("fetch.settle_ms", 1500)
	v.SetDefault("fetch.profile_settle_ms", 2500)
	v.SetDefault("fetch.domain_qps", 0)
	v.SetDefault("output.paths", []string{"data/events.json", "site/events.json"})
	v.SetDefault("gmail.max_messages", 50)
	v.SetDefault("gmail.query", "newer_than:30d")
	v.SetDefault("gmail.include_debug", false)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.NavTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.nav_timeout_seconds must be > 0")
	}
	if c.Fetch.SettleMs < 0 || c.Fetch.ProfileSettleMs < 0 {
		return fmt.Errorf("fetch settle intervals must be >= 0")
	}
	if len(c.Output.Paths) == 0 {
		return fmt.Errorf("output.paths must name at least one file")
	}
	for _, s := range c.Sources {
		if s.Name == "" || s.URL == "" {
			return fmt.Errorf("every source needs a name and url")
		}
		if !s.Kind.Known() {
			return fmt.Errorf("source %q has unknown kind %q", s.Name, s.Kind)
		}
	}
	if c.Gmail.MaxMessages <= 0 {
		return fmt.Errorf("gmail.max_messages must be > 0")
	}
	return nil
}

// Timeout converts the static fetch timeout into a duration.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NavTimeout converts the per-navigation timeout into a duration.
func (c FetchConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

// Settle returns the hydration settle wait for calendar and event pages.
func (c FetchConfig) Settle() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

// ProfileSettle returns the longer settle wait used on social profiles.
func (c FetchConfig) ProfileSettle() time.Duration {
	return time.Duration(c.ProfileSettleMs) * time.Millisecond
}
