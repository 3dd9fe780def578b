package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestIPChecker_PublicIP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/down", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>blocked</html>"))
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"origin": "203.0.113.7, 198.51.100.1"}`))
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("198.51.100.23\n"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	testCases := []struct {
		name     string
		services []string
		want     string
	}{
		{"FallsThroughToJSON", []string{server.URL + "/down", server.URL + "/html", server.URL + "/json"}, "203.0.113.7"},
		{"PlainText", []string{server.URL + "/plain"}, "198.51.100.23"},
		{"AllFail", []string{server.URL + "/down"}, "unknown"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewIPChecker(http.DefaultClient, tc.services, "test", zaptest.NewLogger(t))
			if got := checker.PublicIP(context.Background()); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
