// Package config provides centralized configuration management for
// downlow, layered as defaults, optional config file, environment
// variables, then flags.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Defaults applied before any file, env, or flag overrides.
const (
	DefaultDownloadDir    = "download"
	DefaultMaxTries       = 10
	DefaultRequestTimeout = "31s"
	DefaultLogLevel       = "info"
)

// Load reads configuration into a Config. cfgFile may be empty, in
// which case only defaults, environment, and flags apply. Environment
// variables use the DOWNLOW_ prefix with underscores for nesting, e.g.
// DOWNLOW_DOWNLOAD_DIR, DOWNLOW_LOGGING_LEVEL.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("download_dir", DefaultDownloadDir)
	v.SetDefault("prefixes_to_remove", []string{})
	v.SetDefault("max_tries", DefaultMaxTries)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("rate_limit_rps", 0.0)
	v.SetDefault("rate_limit_burst", 1)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.file", "")
	v.SetDefault("status.addr", "")

	v.SetEnvPrefix("DOWNLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func Validate(cfg *Config) error {
	if cfg.DownloadDir == "" {
		return fmt.Errorf("download_dir must not be empty")
	}
	if cfg.MaxTries < 1 {
		return fmt.Errorf("max_tries must be at least 1, got %d", cfg.MaxTries)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must not be negative, got %f", cfg.RateLimitRPS)
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging level %q", cfg.Logging.Level)
	}
	return nil
}
