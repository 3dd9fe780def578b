package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"campusrag/pkg/embedding"
	"campusrag/repository"

	bolt "go.etcd.io/bbolt"
)

var _ repository.ChunkVectorRepo = (*ChunkClient)(nil)

// EnsureCollection records the vector size on first use and rejects a
// different size afterwards.
func (c *ChunkClient) EnsureCollection(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dimension %d", repository.ErrDimensionMismatch, dim)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		if v := meta.Get(dimKey); v != nil {
			if stored := int(binary.BigEndian.Uint32(v)); stored != dim {
				return fmt.Errorf("%w: index has %d, got %d", repository.ErrDimensionMismatch, stored, dim)
			}
			return nil
		}
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(dim))
		return meta.Put(dimKey, buf)
	})
}

func (c *ChunkClient) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{chunksBucket, metaBucket} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *ChunkClient) UpsertMany(ctx context.Context, docs []*repository.ChunkVectorDoc) error {
	if len(docs) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db.Update(func(tx *bolt.Tx) error {
		dim := storedDim(tx)
		b := tx.Bucket(chunksBucket)
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if dim > 0 && len(doc.Vector) != dim {
				return fmt.Errorf("%w: chunk %s has %d, index has %d", repository.ErrDimensionMismatch, doc.ID, len(doc.Vector), dim)
			}
			id := doc.ID
			if id == "" {
				id = repository.ChunkID(doc.Source, doc.Index, doc.Text)
			}
			value, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("marshal chunk %s: %w", id, err)
			}
			if err := b.Put([]byte(id), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Search returns the k chunks closest to vector by cosine similarity, best first.
func (c *ChunkClient) Search(ctx context.Context, vector []float32, k int) ([]repository.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []repository.ScoredChunk
	err := c.db.View(func(tx *bolt.Tx) error {
		if dim := storedDim(tx); dim > 0 && len(vector) != dim {
			return fmt.Errorf("%w: query has %d, index has %d", repository.ErrDimensionMismatch, len(vector), dim)
		}
		return tx.Bucket(chunksBucket).ForEach(func(key, value []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc repository.ChunkVectorDoc
			if err := json.Unmarshal(value, &doc); err != nil {
				return fmt.Errorf("unmarshal chunk %s: %w", key, err)
			}
			if doc.ID == "" {
				doc.ID = string(key)
			}
			results = append(results, repository.ScoredChunk{
				ChunkVectorDoc: doc,
				Score:          embedding.CosineSimilarity(vector, doc.Vector),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (c *ChunkClient) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(chunksBucket).Stats().KeyN
		return nil
	})
	return n, err
}

func storedDim(tx *bolt.Tx) int {
	v := tx.Bucket(metaBucket).Get(dimKey)
	if len(v) != 4 {
		return 0
	}
	return int(binary.BigEndian.Uint32(v))
}
