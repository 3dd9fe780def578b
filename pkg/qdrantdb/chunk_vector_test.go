package qdrantdb

import (
	"testing"

	"campusrag/repository"

	"github.com/qdrant/go-client/qdrant"
)

func TestToPoint(t *testing.T) {
	doc := &repository.ChunkVectorDoc{Source: "https://example.edu/placements", Index: 2, Text: "Average package: 8 LPA", Vector: []float32{0.1, 0.2}}

	p := toPoint(doc)
	if got := p.GetId().GetUuid(); got != repository.ChunkID(doc.Source, doc.Index, doc.Text) {
		t.Errorf("expected derived id, got %q", got)
	}
	if got := p.GetPayload()["text"].GetStringValue(); got != doc.Text {
		t.Errorf("unexpected text payload %q", got)
	}
	if got := p.GetPayload()["index"].GetIntegerValue(); got != 2 {
		t.Errorf("unexpected index payload %d", got)
	}

	doc.ID = "6f1c1d1e-0000-4000-8000-000000000001"
	if got := toPoint(doc).GetId().GetUuid(); got != doc.ID {
		t.Errorf("explicit id must be kept, got %q", got)
	}
}

func TestFromScoredPoint(t *testing.T) {
	p := &qdrant.ScoredPoint{
		Id: qdrant.NewID("6f1c1d1e-0000-4000-8000-000000000001"),
		Payload: qdrant.NewValueMap(map[string]any{
			"source": "raw_text.txt",
			"index":  4,
			"text":   "Director message",
		}),
		Score: 0.87,
	}

	got := fromScoredPoint(p)
	if got.ID != "6f1c1d1e-0000-4000-8000-000000000001" || got.Source != "raw_text.txt" || got.Index != 4 || got.Text != "Director message" {
		t.Errorf("unexpected chunk %+v", got)
	}
	if got.Score != 0.87 {
		t.Errorf("unexpected score %v", got.Score)
	}
}
