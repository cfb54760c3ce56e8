// Package cmd defines and implements the CLI commands for the linkscout executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/linkscout/internal/clock/system"
	"github.com/JakeFAU/linkscout/internal/config"
	"github.com/JakeFAU/linkscout/internal/crawler"
	"github.com/JakeFAU/linkscout/internal/extractor"
	collyfetcher "github.com/JakeFAU/linkscout/internal/fetcher/colly"
	"github.com/JakeFAU/linkscout/internal/id/uuid"
	"github.com/JakeFAU/linkscout/internal/logging"
	"github.com/JakeFAU/linkscout/internal/logsink"
	"github.com/JakeFAU/linkscout/internal/metrics"
	"github.com/JakeFAU/linkscout/internal/reporter"
)

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Fetches every seed URL once and records the results",
		Long: `Truncates Urls.log and Error.log, fetches every seed URL from the
settings file concurrently, and records the metadata report and extracted
URLs of each page. Extracted URLs are never fetched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

func runCrawl(ctx context.Context, opts *rootOptions, stdout io.Writer) error {
	cfg, loadErr := config.Load(opts.settingsPath())
	if loadErr != nil {
		cfg = config.Default()
	}
	if opts.baseDir != "" {
		cfg.BaseDir = opts.baseDir
	}

	logger, err := logging.New(cfg.Logging.Development || opts.dev)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	journal := logsink.NewJournal(logsink.New(system.New(), logger), cfg.URLLogPath(), cfg.ErrorLogPath())
	if loadErr != nil {
		return recordLoadFailure(journal, logger, loadErr)
	}

	stopMetrics := startMetricsServer(cfg.Metrics.Addr, logger)
	defer stopMetrics()

	rep := reporter.New(journal, stdout, logger)
	orch, err := crawler.New(crawler.Dependencies{
		Journal: journal,
		Fetcher: collyfetcher.New(collyfetcher.Config{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.RequestTimeout,
		}, journal, logger),
		Extractor: extractor.New(journal, logger),
		Reporter:  rep,
		IDs:       uuid.New(),
		Clock:     system.New(),
	}, logger)
	if err != nil {
		return fmt.Errorf("init crawler: %w", err)
	}

	summary, err := orch.Crawl(ctx, cfg.URLs)
	if err != nil {
		return fmt.Errorf("run crawler: %w", err)
	}
	rep.Complete(summary)
	return nil
}

func (o *rootOptions) settingsPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	if o.baseDir != "" {
		return filepath.Join(o.baseDir, config.DefaultSettingsFile)
	}
	return config.DefaultSettingsFile
}

// recordLoadFailure leaves a fresh pair of logs holding the single load error.
func recordLoadFailure(journal *logsink.Journal, logger *zap.Logger, loadErr error) error {
	if err := journal.Reset(); err != nil {
		logger.Error("Failed to reset run logs", zap.Error(err))
	}
	journal.Record(logsink.LevelError, fmt.Sprintf("Error loading settings: %v", loadErr))
	logger.Error("Failed to load settings", zap.Error(loadErr))
	return fmt.Errorf("load settings: %w", loadErr)
}

// startMetricsServer serves /metrics on addr until the returned func is
// called. An empty addr disables it.
func startMetricsServer(addr string, logger *zap.Logger) func() {
	if addr == "" {
		return func() {}
	}
	srv := metrics.NewServer(addr)
	go func() {
		logger.Info("Serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Failed to stop metrics server", zap.Error(err))
		}
	}
}
