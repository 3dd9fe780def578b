package crawler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Crawler walks the allow-listed part of a site depth-first, starting at the
// base URL, and collects the text of relevant, unique pages. A Crawler holds the
// state of one run at a time.
type Crawler struct {
	config     *CrawlerConfig
	fetcher    Fetcher
	extractor  ContentExtractor
	relevance  *KeywordRelevanceFilter
	discoverer *LinkDiscoverer
	logger     *zap.Logger

	visited   *VisitTracker
	dedup     *Deduplicator
	documents []PageDocument
}

type queueItem struct {
	url   string
	depth int
}

func NewCrawler(config *CrawlerConfig, fetcher Fetcher, logger *zap.Logger) (*Crawler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if fetcher == nil {
		return nil, fmt.Errorf("%w: fetcher is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	extractor, err := NewContentExtractor(config)
	if err != nil {
		return nil, err
	}

	return &Crawler{
		config:     config,
		fetcher:    fetcher,
		extractor:  extractor,
		relevance:  NewKeywordRelevanceFilter(config.Keywords),
		discoverer: NewLinkDiscoverer(config),
		logger:     logger,
	}, nil
}

// Crawl runs a full traversal from the base URL. Per-page failures are recorded
// in the result and never stop the run. When ctx is cancelled the pages
// collected so far are returned together with ctx.Err().
func (c *Crawler) Crawl(ctx context.Context) (*CrawlResult, error) {
	started := time.Now()
	c.visited = NewVisitTracker()
	c.dedup = NewDeduplicator()
	c.documents = nil

	if GetRunID(ctx) == "" {
		ctx = WithRunID(ctx, GenerateRunID())
	}
	logger := GetContextLogger(ctx, c.logger)

	seed, err := NormalizeRawURL(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base_url: %v", ErrInvalidConfig, err)
	}

	result := &CrawlResult{}
	stack := []queueItem{{url: seed, depth: 0}}

	logger.Info("crawl started",
		zap.String("base_url", seed),
		zap.Int("max_depth", c.config.MaxDepth),
		zap.Int("max_pages", c.config.MaxPages),
		zap.Bool("dedup", c.config.Dedup))

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			c.finish(logger, result, started)
			return result, err
		}
		if c.config.MaxPages > 0 && result.Summary.Visited >= c.config.MaxPages {
			logger.Info("page ceiling reached", zap.Int("pending", len(stack)))
			break
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !c.visited.MarkVisited(item.url) {
			continue
		}

		if result.Summary.Visited > 0 && c.config.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				c.finish(logger, result, started)
				return result, ctx.Err()
			case <-time.After(c.config.RequestDelay):
			}
		}

		page, links := c.processPage(ctx, logger, item)
		result.Pages = append(result.Pages, page)
		result.Summary.record(page)

		if c.config.MaxDepth > 0 && item.depth >= c.config.MaxDepth {
			continue
		}
		// reverse push keeps document order when popping
		for i := len(links) - 1; i >= 0; i-- {
			if !c.visited.IsVisited(links[i]) {
				stack = append(stack, queueItem{url: links[i], depth: item.depth + 1})
			}
		}
	}

	c.finish(logger, result, started)
	return result, nil
}

func (c *Crawler) finish(logger *zap.Logger, result *CrawlResult, started time.Time) {
	result.Documents = c.documents
	result.Summary.Duration = time.Since(started)

	logger.Info("crawl finished",
		zap.Int("visited", result.Summary.Visited),
		zap.Int("fetched", result.Summary.Fetched),
		zap.Int("accepted", result.Summary.Accepted),
		zap.Int("empty", result.Summary.Empty),
		zap.Int("irrelevant", result.Summary.Irrelevant),
		zap.Int("duplicate", result.Summary.Duplicate),
		zap.Int("failed", result.Summary.Failed),
		zap.Int("unique_urls", c.visited.GetUniqueURLsCount()),
		zap.Duration("duration", result.Summary.Duration))
}
