package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/willf/downlow/internal/core/engine"
	"github.com/willf/downlow/internal/observability"
	"github.com/willf/downlow/internal/output"
	"github.com/willf/downlow/internal/server"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a list of URLs into a mirrored directory tree",
	Long: `Read URLs from a file or stdin (one per line, blank and #-prefixed
lines ignored) and download each into the download directory, mirroring
the URL path with configured prefixes stripped. Failed attempts are
retried with rate-limit-aware backoff up to the maximum attempt count.`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().String("url-file", "", "Path to a file containing URLs (defaults to stdin)")
	downloadCmd.Flags().String("download-dir", "", "Directory to save downloads")
	downloadCmd.Flags().StringSlice("prefixes-to-remove", nil, "Prefixes to remove from the URL path when saving the file")
	downloadCmd.Flags().Bool("auto-remove-prefix", false, "Remove the longest common prefix from the URL paths")
	downloadCmd.Flags().String("regex", "", "Regular expression to match URLs to download")
	downloadCmd.Flags().Bool("reverse", false, "Reverse the regex match, i.e. download URLs that do not match")
	downloadCmd.Flags().Bool("randomize", false, "Randomize the order of the URLs")
	downloadCmd.Flags().Int("max-tries", 0, "Maximum number of attempts per URL")
	downloadCmd.Flags().Bool("dry-run", false, "Do not download, just log what would be done")
	downloadCmd.Flags().String("output", "table", "Summary output format: table, json")
	downloadCmd.Flags().String("status-addr", "", "Serve live run status on this address (e.g. 127.0.0.1:8642)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	log := observability.Logger

	urlFile, err := cmd.Flags().GetString("url-file")
	if err != nil {
		return err
	}
	expr, err := cmd.Flags().GetString("regex")
	if err != nil {
		return err
	}
	reverse, err := cmd.Flags().GetBool("reverse")
	if err != nil {
		return err
	}
	randomize, err := cmd.Flags().GetBool("randomize")
	if err != nil {
		return err
	}
	autoRemovePrefix, err := cmd.Flags().GetBool("auto-remove-prefix")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	applyDownloadFlags(cmd)

	if urlFile == "" {
		log.Info("reading URLs from standard input")
	} else {
		log.Info("reading URLs from file", zap.String("url_file", urlFile))
	}
	urls, err := readURLs(urlFile, os.Stdin)
	if err != nil {
		return err
	}

	before := len(urls)
	urls, err = filterURLs(urls, expr, reverse)
	if err != nil {
		return err
	}
	if expr != "" {
		log.Info("filtered URLs by regex",
			zap.Int("before", before),
			zap.Int("after", len(urls)),
			zap.String("regex", expr),
			zap.Bool("reverse", reverse))
	}

	if randomize {
		shuffleURLs(urls)
	}

	prefixes := cfg.PrefixesToRemove
	if autoRemovePrefix {
		prefix := commonPathPrefix(urls)
		prefixes = append(prefixes, prefix)
		log.Info("auto-removing prefix", zap.String("prefix", prefix))
	}

	if dryRun {
		log.Info("dry run enabled; not downloading files")
		log.Info("would download",
			zap.Int("urls", len(urls)),
			zap.String("download_dir", cfg.DownloadDir))
		return nil
	}

	eng := engine.New(cfg.DownloadDir, prefixes, cfg.MaxTries, log)
	eng.Client = &http.Client{Timeout: cfg.RequestTimeout}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		eng.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statusAddr, err := cmd.Flags().GetString("status-addr")
	if err != nil {
		return err
	}
	if statusAddr == "" {
		statusAddr = cfg.Status.Addr
	}
	if statusAddr != "" {
		srv := server.New(statusAddr, eng, versionInfo.Version, log)
		go func() {
			if err := srv.Start(); err != nil {
				log.Error("status server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("status server shutdown", zap.Error(err))
			}
		}()
	}

	started := time.Now()
	stats := eng.Run(ctx, urls)

	summary := &output.Summary{
		RunID:     eng.RunID(),
		Stats:     stats,
		StartedAt: eng.StartedAt(),
		Elapsed:   time.Since(started).Seconds(),
	}
	formatter := output.NewFormatter(format)
	rendered, err := formatter.FormatSummary(summary)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered)

	// Individual URL failures do not change the exit code; a completed
	// batch is a successful run.
	return nil
}

// applyDownloadFlags overlays explicitly-set command flags onto the
// loaded configuration (flags win over file and environment).
func applyDownloadFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("download-dir") {
		if dir, err := cmd.Flags().GetString("download-dir"); err == nil && dir != "" {
			cfg.DownloadDir = dir
		}
	}
	if cmd.Flags().Changed("prefixes-to-remove") {
		if prefixes, err := cmd.Flags().GetStringSlice("prefixes-to-remove"); err == nil {
			cfg.PrefixesToRemove = prefixes
		}
	}
	if cmd.Flags().Changed("max-tries") {
		if tries, err := cmd.Flags().GetInt("max-tries"); err == nil && tries > 0 {
			cfg.MaxTries = tries
		}
	}
}
