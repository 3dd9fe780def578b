package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestFetchers_StatusErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
				http.Error(w, "bad agent "+ua, http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("<main>ok</main>"))
		case "/gone":
			http.Error(w, "gone", http.StatusGone)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "test-agent"

	for name, factory := range fetcherFactories {
		t.Run(name, func(t *testing.T) {
			f := factory(cfg, t)

			body, err := f.Fetch(context.Background(), server.URL+"/ok")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(body) != "<main>ok</main>" {
				t.Errorf("unexpected body %q", body)
			}

			testCases := []struct {
				path   string
				status int
			}{
				{"/gone", http.StatusGone},
				{"/broken", http.StatusInternalServerError},
			}
			for _, tc := range testCases {
				_, err := f.Fetch(context.Background(), server.URL+tc.path)
				var fetchErr *FetchError
				if !errors.As(err, &fetchErr) {
					t.Fatalf("expected *FetchError for %s, got %v", tc.path, err)
				}
				if fetchErr.StatusCode != tc.status {
					t.Errorf("%s: expected status %d, got %d", tc.path, tc.status, fetchErr.StatusCode)
				}
			}
		})
	}
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	cfg := DefaultConfig()
	_, err := NewHTTPFetcher(&http.Client{Timeout: time.Second}, cfg).Fetch(context.Background(), addr)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("expected no status for transport failure, got %d", fetchErr.StatusCode)
	}
}

func TestHTTPFetcher_MaxBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.MaxBodySize = 4
	body, err := NewHTTPFetcher(http.DefaultClient, cfg).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "0123" {
		t.Errorf("expected truncated body, got %q", body)
	}
}

func TestNewHTTPClient_Proxy(t *testing.T) {
	testCases := []struct {
		name    string
		proxy   string
		wantErr bool
	}{
		{"NoProxy", "", false},
		{"HTTPProxy", "http://127.0.0.1:8080", false},
		{"SOCKS5Proxy", "socks5://127.0.0.1:9050", false},
		{"BadURL", "://bad", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, transport, err := NewHTTPClient(tc.proxy, 5*time.Second)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Timeout != 5*time.Second {
				t.Errorf("unexpected timeout %v", client.Timeout)
			}
			if tc.name == "HTTPProxy" && transport.Proxy == nil {
				t.Error("expected proxy func on transport")
			}
			if tc.name == "SOCKS5Proxy" && transport.DialContext == nil {
				t.Error("expected socks5 dialer on transport")
			}
		})
	}
}

func TestNewFetcher(t *testing.T) {
	logger := zaptest.NewLogger(t)
	for _, name := range []string{FetcherHTTP, FetcherColly} {
		cfg := DefaultConfig()
		cfg.Fetcher = name
		f, closeFn, err := NewFetcher(context.Background(), cfg, "", logger)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if f == nil {
			t.Errorf("%s: expected fetcher", name)
		}
		if err := closeFn(); err != nil {
			t.Errorf("%s: close failed: %v", name, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Fetcher = "carrier-pigeon"
	if _, closeFn, err := NewFetcher(context.Background(), cfg, "", logger); !errors.Is(err, ErrInvalidConfig) || closeFn == nil {
		t.Errorf("expected ErrInvalidConfig and a non-nil close func, got %v", err)
	}
}
