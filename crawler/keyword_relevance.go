package crawler

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// KeywordRelevanceFilter filters content based on a list of keywords/phrases.
type KeywordRelevanceFilter struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// NewKeywordRelevanceFilter lower-cases the keywords and builds one matcher for all of them.
func NewKeywordRelevanceFilter(keywords []string) *KeywordRelevanceFilter {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}

	return &KeywordRelevanceFilter{
		matcher:  ahocorasick.NewStringMatcher(normalized),
		keywords: normalized,
	}
}

// IsRelevant reports whether at least one keyword occurs in the lower-cased text.
func (f *KeywordRelevanceFilter) IsRelevant(text string) bool {
	if text == "" || len(f.keywords) == 0 {
		return false
	}
	return len(f.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))) > 0
}

// MatchedKeywords returns the distinct keywords found in text, in configuration order.
func (f *KeywordRelevanceFilter) MatchedKeywords(text string) []string {
	if text == "" || len(f.keywords) == 0 {
		return nil
	}
	hits := f.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return nil
	}

	found := make(map[int]struct{}, len(hits))
	for _, idx := range hits {
		found[idx] = struct{}{}
	}
	matched := make([]string, 0, len(found))
	for i, k := range f.keywords {
		if _, ok := found[i]; ok {
			matched = append(matched, k)
		}
	}
	return matched
}
