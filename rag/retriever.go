package rag

import (
	"context"
	"fmt"

	"campusrag/pkg/embedding"
	"campusrag/repository"
)

const DefaultTopK = 5

// Retriever embeds a question and returns the closest stored chunks.
type Retriever struct {
	embed embedding.Client
	repo  repository.ChunkVectorRepo
	k     int
}

func NewRetriever(embed embedding.Client, repo repository.ChunkVectorRepo, k int) *Retriever {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Retriever{embed: embed, repo: repo, k: k}
}

func (r *Retriever) Retrieve(ctx context.Context, question string) ([]repository.ScoredChunk, error) {
	vecs, err := r.embed.GetEmbeddings(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed question: expected 1 vector, got %d", len(vecs))
	}
	chunks, err := r.repo.Search(ctx, vecs[0], r.k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return chunks, nil
}
