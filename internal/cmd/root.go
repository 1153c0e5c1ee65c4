package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willf/downlow/internal/config"
	"github.com/willf/downlow/internal/observability"
)

var (
	cfgFile  string
	verbose  bool
	logFile  string
	logLevel string

	// cfg holds the loaded configuration for all commands.
	cfg *config.Config

	// Version info set by main package via ldflags.
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package to record build metadata.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "downlow",
	Short: "Download a list of URLs with tenacity and grace",
	Long: `downlow fetches a list of URLs over HTTP, mirrors them into a local
directory tree, and copes with unreliable servers through rate-limit-aware
backoff and bounded retries.

Use the subcommands to perform specific operations.`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig loads configuration and initializes the CLI logger. Runs
// after flag parsing, before any RunE.
func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		ExitWithCodeStderr(ExitConfigInvalid, "Failed to load configuration", err)
	}
	cfg = loaded

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}

	logger, err := observability.NewCLILogger(cfg.Logging.Level, cfg.Logging.File, verbose)
	if err != nil {
		ExitWithCodeStderr(ExitConfigInvalid, "Failed to initialize logger", err)
	}
	observability.Logger = logger
}
