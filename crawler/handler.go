package crawler

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// processPage runs fetch, link discovery and extraction for one URL. Page chrome
// is removed before links are collected, so navigation, header and footer
// anchors are never followed. Links are returned even when the page itself is
// rejected so hub pages still lead on.
func (c *Crawler) processPage(ctx context.Context, logger *zap.Logger, item queueItem) (PageResult, []string) {
	result := PageResult{URL: item.url, Depth: item.depth}
	logger.Info("scraping", zap.String("url", item.url), zap.Int("depth", item.depth))

	body, err := c.fetcher.Fetch(ctx, item.url)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		logger.Warn("fetch failed", zap.String("url", item.url), zap.Error(err))
		return result, nil
	}

	pageURL, err := url.Parse(item.url)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		result.Status = StatusEmpty
		result.Err = err
		logger.Warn("failed to parse document", zap.String("url", item.url), zap.Error(err))
		return result, nil
	}

	doc.Find(nonContentSelector).Remove()
	links := c.discoverer.DiscoverLinks(doc)
	result.Links = len(links)

	text, err := c.extractor.ExtractText(doc, pageURL)
	if err != nil {
		result.Status = StatusEmpty
		result.Err = err
		logger.Warn("extraction failed", zap.String("url", item.url), zap.Error(err))
		return result, links
	}
	text = strings.TrimSpace(text)

	switch {
	case text == "":
		result.Status = StatusEmpty
	case !c.relevance.IsRelevant(text):
		result.Status = StatusIrrelevant
	case c.config.Dedup && !c.dedup.IsUnique(text):
		result.Status = StatusDuplicate
	default:
		result.Status = StatusAccepted
		c.documents = append(c.documents, PageDocument{
			URL:   item.url,
			Text:  text,
			Hash:  ContentHash(text),
			Depth: item.depth,
		})
	}

	if ce := logger.Check(zap.DebugLevel, "page processed"); ce != nil {
		ce.Write(
			zap.String("url", item.url),
			zap.String("status", string(result.Status)),
			zap.Int("text_length", len(text)),
			zap.Int("links", len(links)),
			zap.Strings("keywords", c.relevance.MatchedKeywords(text)))
	}
	return result, links
}
