package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// TrafilaturaExtractor extracts the main content with go-trafilatura. With
// markdown enabled the content node is converted to Markdown, which keeps
// headings for the markdown chunker.
type TrafilaturaExtractor struct {
	markdown bool
}

func NewTrafilaturaExtractor(markdown bool) *TrafilaturaExtractor {
	return &TrafilaturaExtractor{markdown: markdown}
}

func (te *TrafilaturaExtractor) ExtractText(doc *goquery.Document, pageURL *url.URL) (string, error) {
	htmlContent, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}

	result, err := trafilatura.Extract(strings.NewReader(htmlContent), trafilatura.Options{
		OriginalURL: pageURL,
	})
	if err != nil {
		return "", fmt.Errorf("trafilatura: %w", err)
	}
	if result == nil {
		return "", nil
	}

	if !te.markdown {
		return strings.Join(strings.Fields(result.ContentText), " "), nil
	}
	if result.ContentNode == nil {
		return "", nil
	}

	htmlStr, err := RenderNodeToString(result.ContentNode)
	if err != nil {
		return "", err
	}
	textMd, err := htmltomarkdown.ConvertString(htmlStr)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(textMd), nil
}

func RenderNodeToString(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
