package crawler

import (
	"sync"
)

// VisitTracker is the set of normalized URLs already dequeued during a run.
type VisitTracker struct {
	visitedURL map[string]struct{}
	mutex      sync.RWMutex
}

// NewVisitTracker creates a new visit tracker
func NewVisitTracker() *VisitTracker {
	return &VisitTracker{
		visitedURL: make(map[string]struct{}),
	}
}

// MarkVisited records url and reports whether this was its first visit.
func (vt *VisitTracker) MarkVisited(url string) bool {
	vt.mutex.Lock()
	defer vt.mutex.Unlock()

	if _, ok := vt.visitedURL[url]; ok {
		return false
	}
	vt.visitedURL[url] = struct{}{}
	return true
}

func (vt *VisitTracker) IsVisited(url string) bool {
	vt.mutex.RLock()
	defer vt.mutex.RUnlock()

	_, ok := vt.visitedURL[url]
	return ok
}

// GetUniqueURLsCount returns the number of unique URLs visited
func (vt *VisitTracker) GetUniqueURLsCount() int {
	vt.mutex.RLock()
	defer vt.mutex.RUnlock()

	return len(vt.visitedURL)
}
