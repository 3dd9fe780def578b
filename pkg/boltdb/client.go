package boltdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	chunksBucket = []byte("chunks")
	metaBucket   = []byte("meta")
	dimKey       = []byte("dimension")
)

// ChunkClient is a single-file vector index. Search is a linear cosine scan,
// which is fine for the few thousand chunks one campus site produces.
type ChunkClient struct {
	DBPath string
	db     *bolt.DB
	mu     sync.RWMutex
}

func NewClient(path string) (*ChunkClient, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for BoltDB: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{chunksBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &ChunkClient{DBPath: path, db: db}, nil
}

func (c *ChunkClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}
