package boltdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"campusrag/repository"
)

func newTestClient(t *testing.T) *ChunkClient {
	t.Helper()
	c, err := NewClient(filepath.Join(t.TempDir(), "nested", "index.db"))
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestChunkClient_Search(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	if err := c.EnsureCollection(ctx, 2); err != nil {
		t.Fatalf("ensure collection: %v", err)
	}
	docs := []*repository.ChunkVectorDoc{
		{Source: "s", Index: 0, Text: "placements", Vector: []float32{1, 0}},
		{Source: "s", Index: 1, Text: "admissions", Vector: []float32{0, 1}},
		{Source: "s", Index: 2, Text: "fees", Vector: []float32{0.7, 0.7}},
	}
	if err := c.UpsertMany(ctx, docs); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	results, err := c.Search(ctx, []float32{1, 0.1}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Text != "placements" || results[1].Text != "fees" {
		t.Errorf("unexpected order: %q, %q", results[0].Text, results[1].Text)
	}
	if results[0].Score < results[1].Score {
		t.Error("results must be sorted by descending score")
	}
	if results[0].ID != repository.ChunkID("s", 0, "placements") {
		t.Errorf("expected derived id, got %q", results[0].ID)
	}

	all, err := c.Search(ctx, []float32{1, 0}, 10)
	if err != nil || len(all) != 3 {
		t.Errorf("expected all 3 chunks when k exceeds size, got %d, %v", len(all), err)
	}
}

func TestChunkClient_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	doc := &repository.ChunkVectorDoc{Source: "s", Text: "same", Vector: []float32{1}}
	for i := 0; i < 3; i++ {
		if err := c.UpsertMany(ctx, []*repository.ChunkVectorDoc{doc}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if n, err := c.Count(ctx); err != nil || n != 1 {
		t.Errorf("expected 1 chunk, got %d, %v", n, err)
	}
}

func TestChunkClient_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	if err := c.EnsureCollection(ctx, 3); err != nil {
		t.Fatalf("ensure collection: %v", err)
	}
	if err := c.EnsureCollection(ctx, 4); !errors.Is(err, repository.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch on resize, got %v", err)
	}
	err := c.UpsertMany(ctx, []*repository.ChunkVectorDoc{{Text: "x", Vector: []float32{1, 2}}})
	if !errors.Is(err, repository.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch on upsert, got %v", err)
	}
	if _, err := c.Search(ctx, []float32{1}, 1); !errors.Is(err, repository.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch on search, got %v", err)
	}
}

func TestChunkClient_ResetAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	c, err := NewClient(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.EnsureCollection(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := c.UpsertMany(ctx, []*repository.ChunkVectorDoc{{Text: "a", Vector: []float32{1, 0}}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c, err = NewClient(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	if n, _ := c.Count(ctx); n != 1 {
		t.Fatalf("expected persisted chunk, got %d", n)
	}

	if err := c.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n, _ := c.Count(ctx); n != 0 {
		t.Errorf("expected empty index after reset, got %d", n)
	}
	// dimension is forgotten with the data
	if err := c.EnsureCollection(ctx, 5); err != nil {
		t.Errorf("expected new dimension after reset, got %v", err)
	}
}
