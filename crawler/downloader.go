package crawler

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// Fetcher retrieves the raw body of a page. Every failure is returned as *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// FetchError folds transport failures, timeouts and non-2xx statuses into one
// recoverable error. StatusCode is 0 when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewHTTPClient builds the client shared by the fetchers. proxyURL may be empty,
// an http(s) proxy or a socks5 proxy.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, *http.Transport, error) {
	transport := &http.Transport{
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: timeout,
	}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse proxy url: %w", err)
		}
		switch u.Scheme {
		case "socks5", "socks5h":
			dialer, err := proxy.SOCKS5("tcp", u.Host, nil, proxy.Direct)
			if err != nil {
				return nil, nil, fmt.Errorf("create socks5 dialer: %w", err)
			}
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		default:
			transport.Proxy = http.ProxyURL(u)
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	return client, transport, nil
}

// HTTPFetcher issues a plain GET per page.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

func NewHTTPFetcher(client *http.Client, config *CrawlerConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client:      client,
		userAgent:   config.UserAgent,
		maxBodySize: config.MaxBodySize,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("server returned %s", http.StatusText(resp.StatusCode)),
		}
	}

	var reader io.Reader = resp.Body
	if f.maxBodySize > 0 {
		reader = io.LimitReader(resp.Body, f.maxBodySize)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}
