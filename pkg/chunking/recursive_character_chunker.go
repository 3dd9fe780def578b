package chunking

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"campusrag/pkg/embedding"

	"github.com/tmc/langchaingo/textsplitter"
)

const embedBatchSize = 32

// RecursiveCharacterChunking splits text with a langchaingo splitter and embeds
// the pieces in batches.
type RecursiveCharacterChunking struct {
	splitter   textsplitter.TextSplitter
	embed      embedding.Client
	batchSize  int
	maxRetries int
	baseDelay  time.Duration
}

func NewRecursiveCharacterChunking(chunkSize, chunkOverlap int, embed embedding.Client) *RecursiveCharacterChunking {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
	)
	return newChunking(splitter, embed)
}

func NewMarkdownChunking(chunkSize, chunkOverlap int, embed embedding.Client) *RecursiveCharacterChunking {
	splitter := textsplitter.NewMarkdownTextSplitter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithHeadingHierarchy(true),
	)
	return newChunking(splitter, embed)
}

func newChunking(splitter textsplitter.TextSplitter, embed embedding.Client) *RecursiveCharacterChunking {
	return &RecursiveCharacterChunking{
		splitter:   splitter,
		embed:      embed,
		batchSize:  embedBatchSize,
		maxRetries: 5,
		baseDelay:  100 * time.Millisecond,
	}
}

// Split returns the chunks of text without embedding them.
func (c *RecursiveCharacterChunking) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	out := chunks[:0]
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			out = append(out, chunk)
		}
	}
	return out, nil
}

func (c *RecursiveCharacterChunking) ChunkText(ctx context.Context, text string) ([]ChunkOutput, error) {
	chunks, err := c.Split(text)
	if err != nil {
		return nil, err
	}

	result := make([]ChunkOutput, 0, len(chunks))
	for start := 0; start < len(chunks); start += c.batchSize {
		end := min(start+c.batchSize, len(chunks))
		batch := chunks[start:end]

		vecs, err := c.getEmbeddingsWithRetry(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed failed after retries: %w", err)
		}
		if len(vecs) != len(batch) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(batch))
		}
		for i, chunk := range batch {
			result = append(result, ChunkOutput{
				Text:   chunk,
				Vector: vecs[i],
			})
		}
	}

	return result, nil
}

func (c *RecursiveCharacterChunking) getEmbeddingsWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		vec, err := c.embed.GetEmbeddings(ctx, texts)
		if err == nil {
			return vec, nil
		}

		lastErr = err

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.calculateBackoffDelay(attempt)):
			}
		}
	}

	return nil, lastErr
}

func (c *RecursiveCharacterChunking) calculateBackoffDelay(attempt int) time.Duration {
	delay := float64(c.baseDelay) * math.Pow(2, float64(attempt))

	// up to 25% jitter
	jitter := delay * 0.25 * (0.5 - (float64(time.Now().UnixNano()%1000) / 1000))

	return time.Duration(delay + jitter)
}
