package indexer

import (
	"context"
	"fmt"
	"time"

	"campusrag/pkg/chunking"
	"campusrag/repository"

	"go.uber.org/zap"
)

type Stats struct {
	Documents int
	Chunks    int
	Dimension int
	Duration  time.Duration
}

// Indexer rebuilds the vector index from crawl output.
type Indexer struct {
	chunker chunking.ChunkingClient
	repo    repository.ChunkVectorRepo
	logger  *zap.Logger
}

func NewIndexer(chunker chunking.ChunkingClient, repo repository.ChunkVectorRepo, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{chunker: chunker, repo: repo, logger: logger}
}

// Build chunks and embeds every document, then replaces the index contents.
// Nothing is written when chunking or embedding fails.
func (ix *Indexer) Build(ctx context.Context, docs []SourceDocument) (*Stats, error) {
	started := time.Now()
	if len(docs) == 0 {
		return nil, repository.ErrNoDocuments
	}

	var chunks []*repository.ChunkVectorDoc
	for _, doc := range docs {
		out, err := ix.chunker.ChunkText(ctx, doc.Text)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", doc.Source, err)
		}
		for i, c := range out {
			chunks = append(chunks, &repository.ChunkVectorDoc{
				ID:     repository.ChunkID(doc.Source, i, c.Text),
				Source: doc.Source,
				Index:  i,
				Text:   c.Text,
				Vector: c.Vector,
			})
		}
		ix.logger.Debug("document chunked", zap.String("source", doc.Source), zap.Int("chunks", len(out)))
	}
	if len(chunks) == 0 {
		return nil, repository.ErrNoDocuments
	}

	dim := len(chunks[0].Vector)
	for _, c := range chunks {
		if len(c.Vector) != dim {
			return nil, fmt.Errorf("%w: chunk %s has %d, expected %d", repository.ErrDimensionMismatch, c.ID, len(c.Vector), dim)
		}
	}

	if err := ix.repo.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset index: %w", err)
	}
	if err := ix.repo.EnsureCollection(ctx, dim); err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	if err := ix.repo.UpsertMany(ctx, chunks); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	stats := &Stats{
		Documents: len(docs),
		Chunks:    len(chunks),
		Dimension: dim,
		Duration:  time.Since(started),
	}
	ix.logger.Info("index built",
		zap.Int("documents", stats.Documents),
		zap.Int("chunks", stats.Chunks),
		zap.Int("dimension", stats.Dimension),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}
