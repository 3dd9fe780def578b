package crawler

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

func TestHeuristicExtractor_ExtractText(t *testing.T) {
	longText := strings.TrimSpace(strings.Repeat("placement record ", 25))
	shortText := "placement record only"

	testCases := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "MainLandmark",
			html:     `<html><body><header>Top</header><main><nav>Menu</nav><p>Hello   world</p><script>var x = 1;</script></main></body></html>`,
			expected: "Hello world",
		},
		{
			name:     "ArticleLandmark",
			html:     `<html><body><article><h1>Dean</h1><p>Message from the <b>dean</b>.</p></article></body></html>`,
			expected: "Dean Message from the dean .",
		},
		{
			name:     "OnlyChrome",
			html:     `<html><body><header>Logo</header><nav><a href="/a">A</a></nav><aside>Side</aside><footer>Copyright</footer><script>x()</script><style>p{}</style></body></html>`,
			expected: "",
		},
		{
			name:     "ContentClassFallback",
			html:     `<html><body><div class="widget">Small</div><div class="Page-Content">` + longText + `</div></body></html>`,
			expected: longText,
		},
		{
			name:     "ContentClassTooShort",
			html:     `<html><body><div class="content">` + shortText + `</div></body></html>`,
			expected: "",
		},
		{
			name:     "ClassWithoutHint",
			html:     `<html><body><div class="sidebar">` + longText + `</div></body></html>`,
			expected: "",
		},
		{
			name:     "EmptyMainFallsBack",
			html:     `<html><body><main><nav>Only menu</nav></main><section class="about-us">` + longText + `</section></body></html>`,
			expected: longText,
		},
	}

	extractor := NewHeuristicExtractor(DefaultConfig().ContentHints, 300)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := extractor.ExtractText(mustDoc(t, tc.html), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, text)
			}
		})
	}
}

func TestHeuristicExtractor_LengthFloorIsExclusive(t *testing.T) {
	exact := strings.Repeat("a", 300)
	doc := mustDoc(t, `<div class="content">`+exact+`</div>`)

	text, err := NewHeuristicExtractor([]string{"content"}, 300).ExtractText(doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Errorf("expected text of exactly %d characters to be rejected, got %d", utf8.RuneCountInString(exact), len(text))
	}
}

func TestFlattenText(t *testing.T) {
	doc := mustDoc(t, `<p>  a<b>b</b>
		c <span> </span>d</p>`)
	if got := FlattenText(doc.Find("p")); got != "a b c d" {
		t.Errorf("expected %q, got %q", "a b c d", got)
	}
}

func TestNewContentExtractor(t *testing.T) {
	for _, name := range []string{ExtractorHeuristic, ExtractorReadability, ExtractorTrafilatura, ExtractorMarkdown} {
		cfg := DefaultConfig()
		cfg.Extractor = name
		if _, err := NewContentExtractor(cfg); err != nil {
			t.Errorf("extractor %q: unexpected error: %v", name, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Extractor = "magic"
	if _, err := NewContentExtractor(cfg); err == nil {
		t.Error("expected error for unknown extractor")
	}
}
