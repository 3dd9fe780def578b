package crawler

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ContentExtractor returns the main text of a parsed page. It may modify doc.
type ContentExtractor interface {
	ExtractText(doc *goquery.Document, pageURL *url.URL) (string, error)
}

// NewContentExtractor returns the extractor named by config.Extractor.
func NewContentExtractor(config *CrawlerConfig) (ContentExtractor, error) {
	switch config.Extractor {
	case ExtractorHeuristic, "":
		return NewHeuristicExtractor(config.ContentHints, config.MinContentLength), nil
	case ExtractorReadability:
		return NewReadabilityExtractor(), nil
	case ExtractorTrafilatura:
		return NewTrafilaturaExtractor(false), nil
	case ExtractorMarkdown:
		return NewTrafilaturaExtractor(true), nil
	default:
		return nil, fmt.Errorf("%w: unknown extractor %q", ErrInvalidConfig, config.Extractor)
	}
}

const nonContentSelector = "script, style, nav, footer, header, aside"

// HeuristicExtractor strips page chrome, then looks for a main/article landmark
// and falls back to a container whose class names a topical section.
type HeuristicExtractor struct {
	ContentHints     []string
	MinContentLength int
}

func NewHeuristicExtractor(hints []string, minContentLength int) *HeuristicExtractor {
	normalized := make([]string, 0, len(hints))
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			normalized = append(normalized, h)
		}
	}
	return &HeuristicExtractor{
		ContentHints:     normalized,
		MinContentLength: minContentLength,
	}
}

func (e *HeuristicExtractor) ExtractText(doc *goquery.Document, _ *url.URL) (string, error) {
	doc.Find(nonContentSelector).Remove()

	if main := doc.Find("main, article").First(); main.Length() > 0 {
		if text := FlattenText(main); text != "" {
			return text, nil
		}
	}

	var found string
	doc.Find("div, section").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		if !ok || !e.hasContentHint(class) {
			return true
		}
		text := FlattenText(s)
		if utf8.RuneCountInString(text) > e.MinContentLength {
			found = text
			return false
		}
		return true
	})

	return found, nil
}

func (e *HeuristicExtractor) hasContentHint(class string) bool {
	class = strings.ToLower(class)
	for _, hint := range e.ContentHints {
		if strings.Contains(class, hint) {
			return true
		}
	}
	return false
}

// FlattenText joins the trimmed text nodes under s with single spaces.
func FlattenText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				parts = append(parts, t)
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
