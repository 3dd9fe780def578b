package repository

import (
	"context"
	"crypto/sha256"
	"errors"
	"strconv"

	"github.com/google/uuid"
)

var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrNoDocuments       = errors.New("no documents to index")
)

// chunkNamespace scopes the SHA1 UUIDs of chunk points.
var chunkNamespace = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

type ChunkVectorRepo interface {
	// EnsureCollection creates the index for vectors of size dim if missing.
	EnsureCollection(ctx context.Context, dim int) error
	// Reset drops every stored chunk.
	Reset(ctx context.Context) error
	UpsertMany(ctx context.Context, docs []*ChunkVectorDoc) error
	Search(ctx context.Context, vector []float32, k int) ([]ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

type ChunkVectorDoc struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Index  int       `json:"index"`
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

type ScoredChunk struct {
	ChunkVectorDoc
	Score float32 `json:"score"`
}

// ChunkID derives a stable UUID from the chunk's source, position and text so
// re-indexing the same crawl overwrites instead of duplicating.
func ChunkID(source string, index int, text string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(index)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return uuid.NewSHA1(chunkNamespace, h.Sum(nil)[:16]).String()
}
