// Package config provides configuration types, defaults and loading for selectext.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"selectext/internal/highlight"
	"selectext/internal/log"
	"selectext/internal/store"
)

// EnvPrefix namespaces environment overrides, e.g. SELECTEXT_THEME.
const EnvPrefix = "SELECTEXT"

// Config holds all configuration options for selectext.
type Config struct {
	Theme          string      `mapstructure:"theme"`           // vapor (default), midnight or dusk
	HighlightColor string      `mapstructure:"highlight_color"` // fallback for highlights without a color
	Unit           string      `mapstructure:"unit"`            // default offset unit: byte, rune or utf16
	Scrollback     int         `mapstructure:"scrollback"`      // documents retained by the follow viewer
	LogFile        string      `mapstructure:"log_file"`        // empty disables logging
	LogLevel       string      `mapstructure:"log_level"`
	Cache          CacheConfig `mapstructure:"cache"`
}

// CacheConfig bounds the normalizer memo.
type CacheConfig struct {
	Disabled   bool          `mapstructure:"disabled"`
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Theme:          "vapor",
		HighlightColor: string(store.DefaultColor),
		Unit:           string(highlight.UnitByte),
		Scrollback:     600,
		LogLevel:       "info",
		Cache: CacheConfig{
			MaxEntries: highlight.DefaultMaxEntries,
			TTL:        highlight.DefaultTTL,
		},
	}
}

// SetDefaults registers Defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("theme", d.Theme)
	v.SetDefault("highlight_color", d.HighlightColor)
	v.SetDefault("unit", d.Unit)
	v.SetDefault("scrollback", d.Scrollback)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)
	v.SetDefault("cache.ttl", d.Cache.TTL)
}

// Load reads configuration into v. An explicit path must exist; otherwise
// .selectext/config.yaml and ~/.config/selectext/config.yaml are tried and
// a missing file leaves the defaults in place.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else if _, err := os.Stat(filepath.Join(".selectext", "config.yaml")); err == nil {
		v.SetConfigFile(filepath.Join(".selectext", "config.yaml"))
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "selectext"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Debug(log.CatConfig, "config loaded", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed up silently.
func (c Config) Validate() error {
	if _, err := highlight.ParseUnit(c.Unit); err != nil {
		return fmt.Errorf("config unit: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config log_level: %w", err)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("config cache.max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	switch strings.ToLower(c.Theme) {
	case "vapor", "midnight", "dusk", "":
	default:
		return fmt.Errorf("config theme: unknown theme %q", c.Theme)
	}
	return nil
}

// DefaultUnit returns the parsed default offset unit.
func (c Config) DefaultUnit() highlight.Unit {
	unit, err := highlight.ParseUnit(c.Unit)
	if err != nil {
		return highlight.UnitByte
	}
	return unit
}

// NormalizerOptions translates the cache settings.
func (c Config) NormalizerOptions() []highlight.Option {
	if c.Cache.Disabled {
		return []highlight.Option{highlight.WithoutCache()}
	}
	opts := []highlight.Option{highlight.WithMaxEntries(c.Cache.MaxEntries)}
	if c.Cache.TTL > 0 {
		opts = append(opts, highlight.WithTTL(c.Cache.TTL))
	}
	return opts
}

// InitLogging opens the configured log file. The returned cleanup is never nil.
func (c Config) InitLogging() (func(), error) {
	if c.LogFile == "" {
		return func() {}, nil
	}
	cleanup, err := log.Init(c.LogFile)
	if err != nil {
		return func() {}, fmt.Errorf("open log file: %w", err)
	}
	level, _ := log.ParseLevel(c.LogLevel)
	log.SetMinLevel(level)
	return cleanup, nil
}
