package indexer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"campusrag/crawler"
)

// SourceDocument is one unit of crawl output handed to the chunker.
type SourceDocument struct {
	Source string
	Text   string
}

// LoadCrawlOutput reads the file written by the crawl command in the given
// format.
func LoadCrawlOutput(path, format string) ([]SourceDocument, error) {
	switch format {
	case crawler.OutputText, "":
		return LoadTextFile(path)
	case crawler.OutputJSONL:
		return LoadJSONL(path)
	default:
		return nil, fmt.Errorf("unknown crawl output format %q", format)
	}
}

// LoadTextFile returns the whole file as a single document.
func LoadTextFile(path string) ([]SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	return []SourceDocument{{Source: filepath.Base(path), Text: string(data)}}, nil
}

// LoadJSONL returns one document per crawled page.
func LoadJSONL(path string) ([]SourceDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var docs []SourceDocument
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var page crawler.PageDocument
		if err := json.Unmarshal([]byte(raw), &page); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		docs = append(docs, SourceDocument{Source: page.URL, Text: page.Text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return docs, nil
}
