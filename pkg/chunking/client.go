package chunking

import (
	"context"
	"fmt"

	"campusrag/pkg/embedding"
)

const (
	MethodText     = "text"
	MethodMarkdown = "md"
)

type ChunkOutput struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

type ChunkingClient interface {
	ChunkText(ctx context.Context, text string) ([]ChunkOutput, error)
}

// NewChunker returns the chunker for method ("text" or "md").
func NewChunker(method string, chunkSize, chunkOverlap int, embed embedding.Client) (ChunkingClient, error) {
	switch method {
	case MethodText, "":
		return NewRecursiveCharacterChunking(chunkSize, chunkOverlap, embed), nil
	case MethodMarkdown:
		return NewMarkdownChunking(chunkSize, chunkOverlap, embed), nil
	default:
		return nil, fmt.Errorf("unknown chunking method %q", method)
	}
}
