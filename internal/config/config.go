package config

import "time"

// Config is the complete application configuration, assembled from
// defaults, an optional YAML config file, DOWNLOW_* environment
// variables, and command-line flags (highest precedence).
type Config struct {
	// DownloadDir is the root of the mirrored file tree.
	DownloadDir string `mapstructure:"download_dir"`

	// PrefixesToRemove are stripped from the front of URL paths, in
	// order, before joining under DownloadDir.
	PrefixesToRemove []string `mapstructure:"prefixes_to_remove"`

	// MaxTries bounds attempts per URL.
	MaxTries int `mapstructure:"max_tries"`

	// RequestTimeout bounds each fetch.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// RateLimitRPS enables a global request throttle when > 0. The
	// batch stays sequential; the throttle only spaces out fetches.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	Logging LoggingConfig `mapstructure:"logging"`
	Status  StatusConfig  `mapstructure:"status"`
}

// LoggingConfig controls log level and sinks.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// File adds a log file sink alongside the console when set.
	File string `mapstructure:"file"`
}

// StatusConfig controls the optional status HTTP server that runs
// alongside a batch.
type StatusConfig struct {
	// Addr enables the server when set, e.g. "127.0.0.1:8642".
	Addr string `mapstructure:"addr"`
}
