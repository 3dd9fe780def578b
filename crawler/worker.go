package crawler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const (
	bodyCtxKey   = "body"
	statusCtxKey = "status"
)

// CollyFetcher drives a synchronous colly collector one request at a time.
// Revisits are allowed because the Crawler owns the visited set.
type CollyFetcher struct {
	collector *colly.Collector
	logger    *zap.Logger
}

func NewCollyFetcher(client *http.Client, config *CrawlerConfig, logger *zap.Logger) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(config.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(int(config.MaxBodySize)),
	)
	if client != nil {
		c.SetClient(client)
	}
	c.SetRequestTimeout(config.RequestTimeout)

	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(bodyCtxKey, r.Body)
		r.Ctx.Put(statusCtxKey, r.StatusCode)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r == nil || r.Ctx == nil {
			return
		}
		r.Ctx.Put(statusCtxKey, r.StatusCode)
	})

	return &CollyFetcher{
		collector: c,
		logger:    logger,
	}
}

func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	reqCtx := colly.NewContext()
	err := f.collector.Request(http.MethodGet, rawURL, nil, reqCtx, nil)
	status, _ := reqCtx.GetAny(statusCtxKey).(int)
	if err != nil {
		return nil, &FetchError{URL: rawURL, StatusCode: status, Err: err}
	}

	body, ok := reqCtx.GetAny(bodyCtxKey).([]byte)
	if !ok {
		return nil, &FetchError{URL: rawURL, StatusCode: status, Err: errors.New("no response body")}
	}
	f.logger.Debug("colly fetch", zap.String("url", rawURL), zap.Int("status", status), zap.Int("bytes", len(body)))
	return body, nil
}
