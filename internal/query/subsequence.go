package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// SubsequenceMatcher matches candidates that contain the pattern's characters
// in order, ranked by github.com/sahilm/fuzzy's scoring (consecutive runs,
// word starts and early matches score higher).
type SubsequenceMatcher struct{}

// NewSubsequenceMatcher returns a SubsequenceMatcher.
func NewSubsequenceMatcher() *SubsequenceMatcher {
	return &SubsequenceMatcher{}
}

// Rank implements Matcher. Library scores are negated so that lower ranks first.
func (SubsequenceMatcher) Rank(pattern string, candidates []string) []Hit {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		hits := make([]Hit, len(candidates))
		for i := range candidates {
			hits[i] = Hit{Index: i}
		}
		return hits
	}

	matches := fuzzy.Find(pattern, candidates)
	hits := make([]Hit, 0, len(matches))
	for _, match := range matches {
		hits = append(hits, Hit{Index: match.Index, Score: -float64(match.Score)})
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return hits
}
