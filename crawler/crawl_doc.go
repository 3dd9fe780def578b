package crawler

import "time"

// PageDocument is one accepted page.
type PageDocument struct {
	URL   string `json:"url"`
	Text  string `json:"text"`
	Hash  string `json:"hash"`
	Depth int    `json:"-"`
}

type PageStatus string

const (
	StatusAccepted   PageStatus = "accepted"
	StatusEmpty      PageStatus = "empty"
	StatusIrrelevant PageStatus = "irrelevant"
	StatusDuplicate  PageStatus = "duplicate"
	StatusFailed     PageStatus = "failed"
)

// PageResult is the outcome of processing one URL.
type PageResult struct {
	URL    string
	Depth  int
	Status PageStatus
	Links  int
	Err    error
}

// Summary counts page outcomes for a run.
type Summary struct {
	Visited    int
	Fetched    int
	Accepted   int
	Empty      int
	Irrelevant int
	Duplicate  int
	Failed     int
	Duration   time.Duration
}

func (s *Summary) record(r PageResult) {
	s.Visited++
	if r.Status != StatusFailed {
		s.Fetched++
	}
	switch r.Status {
	case StatusAccepted:
		s.Accepted++
	case StatusEmpty:
		s.Empty++
	case StatusIrrelevant:
		s.Irrelevant++
	case StatusDuplicate:
		s.Duplicate++
	case StatusFailed:
		s.Failed++
	}
}

type CrawlResult struct {
	Documents []PageDocument
	Pages     []PageResult
	Summary   Summary
}
