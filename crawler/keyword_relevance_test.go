package crawler

import (
	"reflect"
	"testing"
)

func TestKeywordRelevanceFilter_IsRelevant(t *testing.T) {
	longText := `GL Bajaj welcomes every aspirant. The campus hosts annual fests, sports meets
	and cultural evenings. The Training and Placement cell publishes the Average Package every year,
	and the admission desk answers questions about eligibility.`

	testCases := []struct {
		name        string
		keywords    []string
		content     string
		expectedRel bool
	}{
		{"LongContentMatch", []string{"average package"}, longText, true},
		{"CaseInsensitiveKeyword", []string{"TRAINING AND PLACEMENT"}, longText, true},
		{"SubstringMatch", []string{"fee"}, "Coffee is served in the canteen", true},
		{"NoMatch", []string{"hostel", "library"}, longText, false},
		{"EmptyText", []string{"placement"}, "", false},
		{"NoKeywords", nil, longText, false},
		{"BlankKeywordsIgnored", []string{" ", ""}, longText, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filter := NewKeywordRelevanceFilter(tc.keywords)
			if rel := filter.IsRelevant(tc.content); rel != tc.expectedRel {
				t.Errorf("expected relevance %v, got %v", tc.expectedRel, rel)
			}
		})
	}
}

func TestKeywordRelevanceFilter_MatchedKeywords(t *testing.T) {
	filter := NewKeywordRelevanceFilter([]string{"director", "salary", "dean"})

	got := filter.MatchedKeywords("The Dean and the Director met.")
	want := []string{"director", "dean"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := filter.MatchedKeywords("nothing here"); got != nil {
		t.Errorf("expected no matches, got %v", got)
	}
}
