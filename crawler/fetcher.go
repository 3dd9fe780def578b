package crawler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewFetcher builds the fetcher named by config.Fetcher. The returned close
// function releases browser resources and is never nil.
func NewFetcher(ctx context.Context, config *CrawlerConfig, proxyURL string, logger *zap.Logger) (Fetcher, func() error, error) {
	noop := func() error { return nil }

	switch config.Fetcher {
	case FetcherChrome:
		f := NewChromeFetcher(ctx, config, proxyURL, logger)
		return f, f.Close, nil
	case FetcherHTTP, FetcherColly, "":
		client, transport, err := NewHTTPClient(proxyURL, config.RequestTimeout)
		if err != nil {
			return nil, noop, err
		}
		closeIdle := func() error {
			transport.CloseIdleConnections()
			return nil
		}
		if config.Fetcher == FetcherHTTP {
			return NewHTTPFetcher(client, config), closeIdle, nil
		}
		return NewCollyFetcher(client, config, logger), closeIdle, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown fetcher %q", ErrInvalidConfig, config.Fetcher)
	}
}
