package query

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// exactScore stands in for a perfect match when ranking so that the field
// norm still separates exact hits on short and long names.
const exactScore = 2.220446049250313e-16

// normPrecision rounds field norms to three decimals.
const normPrecision = 1000

// ApproximateMatcher scores a pattern against the best approximate substring of
// each candidate. A candidate's score is
//
//	errors/len(pattern) + |start-Location|/Distance
//
// minimised over every start position, where errors is the edit distance
// between the pattern and the closest substring beginning at start.
type ApproximateMatcher struct {
	opts MatchOptions
}

// NewApproximateMatcher returns an ApproximateMatcher for opts.
func NewApproximateMatcher(opts MatchOptions) *ApproximateMatcher {
	return &ApproximateMatcher{opts: opts}
}

// Options returns the matcher's options.
func (m *ApproximateMatcher) Options() MatchOptions {
	return m.opts
}

// Rank implements Matcher.
func (m *ApproximateMatcher) Rank(pattern string, candidates []string) []Hit {
	p := m.normalize(strings.TrimSpace(pattern))

	hits := make([]Hit, 0, len(candidates))
	if len(p) == 0 {
		for i := range candidates {
			hits = append(hits, Hit{Index: i})
		}
		return hits
	}
	for i, c := range candidates {
		score, ok := m.score(p, m.normalize(c))
		if !ok {
			continue
		}
		hits = append(hits, Hit{Index: i, Score: m.rankScore(score, c)})
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return hits
}

// Score returns the raw 0..1 score of pattern against text and whether it is
// within the threshold.
func (m *ApproximateMatcher) Score(pattern, text string) (float64, bool) {
	return m.score(m.normalize(strings.TrimSpace(pattern)), m.normalize(text))
}

func (m *ApproximateMatcher) score(pattern, text []rune) (float64, bool) {
	if len(pattern) == 0 {
		return 0, true
	}

	best := math.Inf(1)
	lastStart := max(len(text)-1, 0)
	prev := make([]int, len(pattern)+1)
	cur := make([]int, len(pattern)+1)

	for start := 0; start <= lastStart; start++ {
		proximity := m.proximity(start)
		if !m.opts.IgnoreLocation && start >= m.opts.Location && proximity > math.Min(best, m.opts.Threshold) {
			// The position penalty only grows from here.
			break
		}
		errs := editsFrom(pattern, text[start:], prev, cur)
		if s := m.combine(errs, len(pattern), proximity); s < best {
			best = s
		}
		if best == 0 {
			break
		}
	}

	return best, best <= m.opts.Threshold
}

// proximity is the position penalty for a match beginning at start.
func (m *ApproximateMatcher) proximity(start int) float64 {
	if m.opts.IgnoreLocation {
		return 0
	}
	offset := math.Abs(float64(start - m.opts.Location))
	if m.opts.Distance <= 0 {
		if offset == 0 {
			return 0
		}
		return 1
	}
	return offset / float64(m.opts.Distance)
}

func (m *ApproximateMatcher) combine(errs, patternLen int, proximity float64) float64 {
	accuracy := float64(errs) / float64(patternLen)
	if m.opts.IgnoreLocation {
		return accuracy
	}
	if m.opts.Distance <= 0 && proximity != 0 {
		return 1
	}
	return accuracy + proximity
}

// rankScore weights a raw score by the candidate's word count so that a hit
// in a short name outranks the same hit in a long one.
func (m *ApproximateMatcher) rankScore(score float64, text string) float64 {
	if m.opts.IgnoreFieldNorm {
		return score
	}
	return math.Pow(math.Max(score, exactScore), fieldNorm(text))
}

func fieldNorm(text string) float64 {
	words := max(len(strings.Fields(text)), 1)
	return math.Round(normPrecision/math.Sqrt(float64(words))) / normPrecision
}

// editsFrom returns the smallest edit distance between pattern and any prefix
// of text. prev and cur are scratch rows of len(pattern)+1.
func editsFrom(pattern, text []rune, prev, cur []int) int {
	for i := range prev {
		prev[i] = i
	}
	best := prev[len(pattern)]

	for j, tc := range text {
		cur[0] = j + 1
		colMin := cur[0]
		for i, pc := range pattern {
			cost := 1
			if pc == tc {
				cost = 0
			}
			cur[i+1] = min(prev[i]+cost, prev[i+1]+1, cur[i]+1)
			colMin = min(colMin, cur[i+1])
		}
		best = min(best, cur[len(pattern)])
		prev, cur = cur, prev
		if colMin >= best {
			// Column minima never decrease, so no longer prefix can do better.
			break
		}
	}
	return best
}

// normalize case-folds s and, when configured, strips diacritics.
func (m *ApproximateMatcher) normalize(s string) []rune {
	s = cases.Fold().String(s)
	if m.opts.IgnoreDiacritics {
		t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if stripped, _, err := transform.String(t, s); err == nil {
			s = stripped
		}
	}
	return []rune(s)
}
