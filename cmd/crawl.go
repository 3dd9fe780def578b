package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"campusrag/config"
	"campusrag/crawler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the site and save relevant page text",
		Long: `Crawl walks the site depth-first from its base URL, following only links
whose path matches the allow-list, and keeps the main text of pages that
mention at least one keyword. Identical texts are kept once.

Interrupting the crawl still writes the pages collected so far.`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (overrides CRAWL_OUTPUT_PATH)")
	cmd.Flags().StringP("format", "f", "", "Output format: text or jsonl (overrides CRAWL_OUTPUT_FORMAT)")
	cmd.Flags().IntP("depth", "d", -1, "Maximum link depth, 0 for unlimited")
	cmd.Flags().IntP("max-pages", "p", -1, "Maximum pages to visit, 0 for unlimited")
	cmd.Flags().String("fetcher", "", "Fetcher: colly, http or chrome")
	cmd.Flags().String("extractor", "", "Extractor: heuristic, readability, trafilatura or markdown")
	cmd.Flags().Bool("no-dedup", false, "Keep pages with identical text")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	siteCfg, err := loadSiteConfig(cmd, cfg)
	if err != nil {
		return err
	}
	applyCrawlFlags(cmd, cfg, siteCfg)
	if err := siteCfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.ProxyURL != "" {
		client, transport, err := crawler.NewHTTPClient(cfg.ProxyURL, siteCfg.RequestTimeout)
		if err != nil {
			return err
		}
		ip := crawler.NewIPChecker(client, nil, siteCfg.UserAgent, logger).PublicIP(ctx)
		transport.CloseIdleConnections()
		logger.Info("crawling through proxy", zap.String("egress_ip", ip))
	}

	fetcher, closeFetcher, err := crawler.NewFetcher(ctx, siteCfg, cfg.ProxyURL, logger)
	if err != nil {
		return err
	}
	defer closeFetcher()

	c, err := crawler.NewCrawler(siteCfg, fetcher, logger)
	if err != nil {
		return err
	}

	result, crawlErr := c.Crawl(ctx)
	if crawlErr != nil && !errors.Is(crawlErr, context.Canceled) {
		return crawlErr
	}

	if err := crawler.SaveOutput(cfg.CrawlOutputPath, cfg.CrawlOutputFormat, result.Documents); err != nil {
		return err
	}
	logger.Info("crawl output saved",
		zap.String("path", cfg.CrawlOutputPath),
		zap.String("format", cfg.CrawlOutputFormat),
		zap.Int("documents", len(result.Documents)))

	s := result.Summary
	fmt.Fprintf(cmd.OutOrStdout(), "visited %d, accepted %d, duplicate %d, irrelevant %d, empty %d, failed %d in %s\n",
		s.Visited, s.Accepted, s.Duplicate, s.Irrelevant, s.Empty, s.Failed, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "saved %d documents to %s\n", len(result.Documents), cfg.CrawlOutputPath)

	return crawlErr
}

func applyCrawlFlags(cmd *cobra.Command, cfg *config.Config, siteCfg *crawler.CrawlerConfig) {
	flags := cmd.Flags()
	if v, _ := flags.GetString("output"); v != "" {
		cfg.CrawlOutputPath = v
	}
	if v, _ := flags.GetString("format"); v != "" {
		cfg.CrawlOutputFormat = v
	}
	if v, _ := flags.GetInt("depth"); v >= 0 {
		siteCfg.MaxDepth = v
	}
	if v, _ := flags.GetInt("max-pages"); v >= 0 {
		siteCfg.MaxPages = v
	}
	if v, _ := flags.GetString("fetcher"); v != "" {
		siteCfg.Fetcher = v
	}
	if v, _ := flags.GetString("extractor"); v != "" {
		siteCfg.Extractor = v
	}
	if v, _ := flags.GetBool("no-dedup"); v {
		siteCfg.Dedup = false
	}
}
