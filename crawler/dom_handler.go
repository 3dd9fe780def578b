package crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeFetcher renders pages in headless Chrome, for sites that build their
// content with scripts. One browser is shared; each fetch opens a new tab.
type ChromeFetcher struct {
	logger        *zap.Logger
	config        *CrawlerConfig
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
}

func NewChromeFetcher(ctx context.Context, config *CrawlerConfig, proxyURL string, logger *zap.Logger) *ChromeFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.UserAgent(config.UserAgent),
		chromedp.Flag("disable-extensions", true),
	)
	if proxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(proxyURL))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	return &ChromeFetcher{
		logger:     logger,
		config:     config,
		browserCtx: browserCtx,
		cancelBrowser: func() {
			browserCancel()
			allocCancel()
		},
	}
}

func (f *ChromeFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()
	timeoutCtx, cancelTimeout := context.WithTimeout(tabCtx, f.config.RequestTimeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	// status of the first document response, redirects already followed
	var (
		mu     sync.Mutex
		status int
	)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument {
			return
		}
		mu.Lock()
		if status == 0 {
			status = int(e.Response.Status)
		}
		mu.Unlock()
	})

	var domHTML string
	err := chromedp.Run(timeoutCtx,
		network.Enable(),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &domHTML),
	)

	mu.Lock()
	code := status
	mu.Unlock()
	if err != nil {
		return nil, &FetchError{URL: rawURL, StatusCode: code, Err: fmt.Errorf("render page: %w", err)}
	}
	if code != 0 && (code < 200 || code > 299) {
		return nil, &FetchError{URL: rawURL, StatusCode: code, Err: fmt.Errorf("server returned status %d", code)}
	}

	f.logger.Debug("chrome fetch", zap.String("url", rawURL), zap.Int("dom_length", len(domHTML)))
	return []byte(domHTML), nil
}

// Close shuts the browser down.
func (f *ChromeFetcher) Close() error {
	f.cancelBrowser()
	return nil
}
