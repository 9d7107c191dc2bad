package query

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the fuzzy matching algorithm.
type Mode string

// Supported match modes.
const (
	// ModeApproximate scores approximate substring matches by edit distance
	// and position. It is the default.
	ModeApproximate Mode = "approximate"
	// ModeSubsequence scores in-order character subsequences, fzf style.
	ModeSubsequence Mode = "subsequence"
)

// ErrUnknownMode is returned by ParseMode for unsupported values.
var ErrUnknownMode = errors.New("unknown search mode")

// ParseMode parses a match mode. An empty string selects ModeApproximate.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeApproximate:
		return ModeApproximate, nil
	case ModeSubsequence:
		return ModeSubsequence, nil
	default:
		return "", fmt.Errorf("%w: %q (use %q or %q)", ErrUnknownMode, s, ModeApproximate, ModeSubsequence)
	}
}

// Default approximate matching parameters.
const (
	DefaultThreshold = 0.3
	DefaultLocation  = 0
	DefaultDistance  = 100
)

// MatchOptions tunes the approximate matcher. The subsequence matcher ignores it.
type MatchOptions struct {
	// Threshold is the highest score that still counts as a match, on a
	// 0 (exact) to 1 (no match) scale.
	Threshold float64
	// Location is where in the text the pattern is expected to start.
	Location int
	// Distance is how far from Location a match may start before the
	// position penalty alone reaches 1. Zero means only Location counts.
	Distance int
	// IgnoreLocation drops the position penalty.
	IgnoreLocation bool
	// IgnoreDiacritics strips combining marks before matching.
	IgnoreDiacritics bool
	// IgnoreFieldNorm disables the word-count weighting of ranking scores.
	IgnoreFieldNorm bool
}

// DefaultMatchOptions returns the default approximate matching options.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Threshold: DefaultThreshold,
		Location:  DefaultLocation,
		Distance:  DefaultDistance,
	}
}

// Hit is one matching candidate. Lower scores rank first.
type Hit struct {
	Index int
	Score float64
}

// Matcher ranks candidates against a pattern. Rank returns only the matching
// candidates, best-first, with ties in candidate order.
type Matcher interface {
	Rank(pattern string, candidates []string) []Hit
}

// NewMatcher returns the Matcher for mode.
func NewMatcher(mode Mode, opts MatchOptions) (Matcher, error) {
	switch mode {
	case ModeApproximate, "":
		return NewApproximateMatcher(opts), nil
	case ModeSubsequence:
		return NewSubsequenceMatcher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
