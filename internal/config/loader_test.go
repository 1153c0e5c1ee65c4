package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "download", cfg.DownloadDir)
	require.Empty(t, cfg.PrefixesToRemove)
	require.Equal(t, 10, cfg.MaxTries)
	require.Equal(t, 31*time.Second, cfg.RequestTimeout)
	require.Zero(t, cfg.RateLimitRPS)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Empty(t, cfg.Status.Addr)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
download_dir: /tmp/mirror
prefixes_to_remove:
  - /easey
max_tries: 4
request_timeout: 10s
rate_limit_rps: 2.5
logging:
  level: debug
status:
  addr: 127.0.0.1:8642
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "/tmp/mirror", cfg.DownloadDir)
	require.Equal(t, []string{"/easey"}, cfg.PrefixesToRemove)
	require.Equal(t, 4, cfg.MaxTries)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, 2.5, cfg.RateLimitRPS)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "127.0.0.1:8642", cfg.Status.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DOWNLOW_MAX_TRIES", "2")
	t.Setenv("DOWNLOW_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 2, cfg.MaxTries)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty download dir", func(c *Config) { c.DownloadDir = "" }},
		{"zero max tries", func(c *Config) { c.MaxTries = 0 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"negative rps", func(c *Config) { c.RateLimitRPS = -1 }},
		{"bogus log level", func(c *Config) { c.Logging.Level = "shouty" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tc.mutate(cfg)
			require.Error(t, Validate(cfg))
		})
	}
}
