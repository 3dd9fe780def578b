package qdrantdb

import (
	"context"
	"fmt"

	"campusrag/repository"

	"github.com/qdrant/go-client/qdrant"
)

const upsertBatchSize = 256

var _ repository.ChunkVectorRepo = (*ChunkClient)(nil)

func (c *ChunkClient) EnsureCollection(ctx context.Context, dim int) error {
	exists, err := c.Client.CollectionExists(ctx, c.Collection)
	if err != nil {
		return err
	}
	if exists {
		info, err := c.Client.GetCollectionInfo(ctx, c.Collection)
		if err != nil {
			return fmt.Errorf("err get collection info: %w", err)
		}
		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != 0 && int(size) != dim {
			return fmt.Errorf("%w: collection %s has %d, got %d", repository.ErrDimensionMismatch, c.Collection, size, dim)
		}
		return nil
	}

	err = c.Client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("err create chunk collection: %w", err)
	}

	_, err = c.Client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: c.Collection,
		FieldName:      "source",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("err create source index: %w", err)
	}
	return nil
}

// Reset deletes the collection; the next EnsureCollection recreates it.
func (c *ChunkClient) Reset(ctx context.Context) error {
	exists, err := c.Client.CollectionExists(ctx, c.Collection)
	if err != nil || !exists {
		return err
	}
	return c.Client.DeleteCollection(ctx, c.Collection)
}

func (c *ChunkClient) UpsertMany(ctx context.Context, docs []*repository.ChunkVectorDoc) error {
	for start := 0; start < len(docs); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(docs))
		points := make([]*qdrant.PointStruct, 0, end-start)
		for _, doc := range docs[start:end] {
			points = append(points, toPoint(doc))
		}

		_, err := c.Client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: c.Collection,
			Wait:           qdrant.PtrOf(true),
			Points:         points,
		})
		if err != nil {
			return fmt.Errorf("err upsert chunks: %w", err)
		}
	}
	return nil
}

func (c *ChunkClient) Search(ctx context.Context, vector []float32, k int) ([]repository.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}
	points, err := c.Client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.Collection,
		Query:          qdrant.NewQueryDense(vector),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("err query chunks: %w", err)
	}

	results := make([]repository.ScoredChunk, 0, len(points))
	for _, p := range points {
		results = append(results, fromScoredPoint(p))
	}
	return results, nil
}

func (c *ChunkClient) Count(ctx context.Context) (int, error) {
	n, err := c.Client.Count(ctx, &qdrant.CountPoints{
		CollectionName: c.Collection,
		Exact:          qdrant.PtrOf(true),
	})
	return int(n), err
}

func toPoint(doc *repository.ChunkVectorDoc) *qdrant.PointStruct {
	id := doc.ID
	if id == "" {
		id = repository.ChunkID(doc.Source, doc.Index, doc.Text)
	}
	md := map[string]any{
		"source": doc.Source,
		"index":  doc.Index,
		"text":   doc.Text,
	}
	return &qdrant.PointStruct{
		Id:      qdrant.NewID(id),
		Vectors: qdrant.NewVectorsDense(doc.Vector),
		Payload: qdrant.NewValueMap(md),
	}
}

func fromScoredPoint(p *qdrant.ScoredPoint) repository.ScoredChunk {
	payload := p.GetPayload()
	return repository.ScoredChunk{
		ChunkVectorDoc: repository.ChunkVectorDoc{
			ID:     p.GetId().GetUuid(),
			Source: payload["source"].GetStringValue(),
			Index:  int(payload["index"].GetIntegerValue()),
			Text:   payload["text"].GetStringValue(),
		},
		Score: p.GetScore(),
	}
}
