package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Deduplicator remembers the digest of every accepted text. Matching is exact:
// a single differing byte yields a different digest.
type Deduplicator struct {
	seen  map[[sha256.Size]byte]struct{}
	mutex sync.Mutex
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seen: make(map[[sha256.Size]byte]struct{}),
	}
}

// IsUnique registers the digest of text and reports whether it was new.
func (d *Deduplicator) IsUnique(text string) bool {
	sum := sha256.Sum256([]byte(text))

	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, ok := d.seen[sum]; ok {
		return false
	}
	d.seen[sum] = struct{}{}
	return true
}

func (d *Deduplicator) Len() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.seen)
}

// ContentHash returns the hex digest used to identify a text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
