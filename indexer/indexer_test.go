package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"campusrag/crawler"
	"campusrag/pkg/boltdb"
	"campusrag/pkg/chunking"
	"campusrag/repository"

	"go.uber.org/zap/zaptest"
)

// lineChunker emits one chunk per non-empty line with a 2-d vector.
type lineChunker struct {
	err error
}

func (c *lineChunker) ChunkText(ctx context.Context, text string) ([]chunking.ChunkOutput, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []chunking.ChunkOutput
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		vec := []float32{0, 1}
		if strings.Contains(strings.ToLower(line), "placement") {
			vec = []float32{1, 0}
		}
		out = append(out, chunking.ChunkOutput{Text: line, Vector: vec})
	}
	return out, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTextFile(t *testing.T) {
	path := writeFile(t, "raw_text.txt", "Placements text\n\nAdmissions text\n\n")
	docs, err := LoadTextFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Source != "raw_text.txt" || !strings.Contains(docs[0].Text, "Admissions text") {
		t.Errorf("expected the whole file as one document, got %+v", docs)
	}

	empty := writeFile(t, "empty.txt", "")
	if docs, err := LoadTextFile(empty); err != nil || len(docs) != 0 {
		t.Errorf("expected no documents for empty file, got %+v, %v", docs, err)
	}
}

func TestLoadJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pages.jsonl")
	pages := []crawler.PageDocument{
		{URL: "https://example.edu/placements", Text: "Average package: 8 LPA"},
		{URL: "https://example.edu/admissions", Text: "Apply online"},
	}
	if err := crawler.SaveOutput(path, crawler.OutputJSONL, pages); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadCrawlOutput(path, crawler.OutputJSONL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].Source != pages[0].URL || docs[1].Text != "Apply online" {
		t.Errorf("unexpected documents %+v", docs)
	}

	bad := writeFile(t, "bad.jsonl", "{\"url\":\"x\"}\nnot json\n")
	if _, err := LoadJSONL(bad); err == nil || !strings.Contains(err.Error(), ":2:") {
		t.Errorf("expected error naming line 2, got %v", err)
	}
}

func TestIndexer_Build(t *testing.T) {
	ctx := context.Background()
	repo, err := boltdb.NewClient(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	ix := NewIndexer(&lineChunker{}, repo, zaptest.NewLogger(t))
	docs := []SourceDocument{
		{Source: "raw_text.txt", Text: "Average placement package: 8 LPA\nThe director is Dr. Rao\nHostel fees are listed"},
	}

	stats, err := ix.Build(ctx, docs)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if stats.Documents != 1 || stats.Chunks != 3 || stats.Dimension != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}

	results, err := repo.Search(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].Text != "Average placement package: 8 LPA" {
		t.Errorf("unexpected search result %+v", results)
	}

	// rebuilding replaces the previous contents
	if _, err := ix.Build(ctx, []SourceDocument{{Source: "b", Text: "only one line"}}); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("expected 1 chunk after rebuild, got %d", n)
	}
}

func TestIndexer_BuildErrors(t *testing.T) {
	ctx := context.Background()
	repo, err := boltdb.NewClient(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	if _, err := NewIndexer(&lineChunker{}, repo, nil).Build(ctx, nil); !errors.Is(err, repository.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
	if _, err := NewIndexer(&lineChunker{}, repo, nil).Build(ctx, []SourceDocument{{Source: "x", Text: "\n\n"}}); !errors.Is(err, repository.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for blank text, got %v", err)
	}

	// a failed embed leaves the existing index untouched
	if _, err := NewIndexer(&lineChunker{}, repo, nil).Build(ctx, []SourceDocument{{Source: "x", Text: "keep me"}}); err != nil {
		t.Fatal(err)
	}
	embedErr := errors.New("embedding service down")
	if _, err := NewIndexer(&lineChunker{err: embedErr}, repo, nil).Build(ctx, []SourceDocument{{Source: "x", Text: "new"}}); !errors.Is(err, embedErr) {
		t.Errorf("expected embed error, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("expected previous index to survive, got %d chunks", n)
	}
}
