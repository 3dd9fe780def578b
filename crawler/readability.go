package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

type ReadabilityExtractor struct{}

func NewReadabilityExtractor() *ReadabilityExtractor {
	return &ReadabilityExtractor{}
}

func (re *ReadabilityExtractor) ExtractText(doc *goquery.Document, pageURL *url.URL) (string, error) {
	htmlContent, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(htmlContent), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	return strings.Join(strings.Fields(article.TextContent), " "), nil
}
