package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kpopnet/crawler/internal/kastden"
	"github.com/kpopnet/crawler/internal/logging"
	"github.com/kpopnet/crawler/internal/metrics"
	"github.com/kpopnet/crawler/internal/profile"
	"github.com/kpopnet/crawler/internal/thumbs"
)

// newCrawlCmd creates the 'crawl' subcommand, which runs one full crawl of
// the profile database and writes the dataset on success.
func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Runs the profile crawl and writes the dataset",
		Long: `Crawls the profile database, extracts and cross-references idol and
group records, applies the override table, validates the result, and writes
kpopnet.json, kpopnet.min.json, and the thumbnail store. Exits non-zero and
writes no output if any page fails to extract.`,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := kastden.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}

	metrics.Init()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	overrides, err := profile.LoadOverrides(cfg.OverridesPath)
	if err != nil {
		return err
	}

	store, err := thumbs.New(cfg.ThumbDir, cfg.ThumbBaseURL, logging.L)
	if err != nil {
		return fmt.Errorf("init thumbnail store: %w", err)
	}

	spider, err := kastden.New(cfg, overrides, store, logging.L)
	if err != nil {
		return fmt.Errorf("init spider: %w", err)
	}

	if _, err := spider.Run(cmd.Context()); err != nil {
		return fmt.Errorf("crawl: %w", err)
	}

	logging.L.Info("Crawl command finished.")
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.L.Warn("Metrics listener stopped", zap.Error(err))
	}
}
