package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/countries/internal/query"
)

func hitIndexes(hits []query.Hit) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.Index
	}
	return out
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    query.Mode
		wantErr bool
	}{
		{input: "", want: query.ModeApproximate},
		{input: "approximate", want: query.ModeApproximate},
		{input: " Subsequence ", want: query.ModeSubsequence},
		{input: "phonetic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := query.ParseMode(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, query.ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMatcher(t *testing.T) {
	m, err := query.NewMatcher(query.ModeApproximate, query.DefaultMatchOptions())
	require.NoError(t, err)
	assert.IsType(t, &query.ApproximateMatcher{}, m)

	m, err = query.NewMatcher(query.ModeSubsequence, query.DefaultMatchOptions())
	require.NoError(t, err)
	assert.IsType(t, &query.SubsequenceMatcher{}, m)

	_, err = query.NewMatcher("soundex", query.DefaultMatchOptions())
	require.ErrorIs(t, err, query.ErrUnknownMode)
}

func TestApproximate_TypoStillMatches(t *testing.T) {
	m := query.NewApproximateMatcher(query.DefaultMatchOptions())

	hits := m.Rank("Chadd", []string{"Zimbabwe", "Albania", "Chad"})
	assert.Equal(t, []int{2}, hitIndexes(hits))
}

func TestApproximate_Score(t *testing.T) {
	tests := []struct {
		name      string
		opts      func(*query.MatchOptions)
		pattern   string
		text      string
		wantScore float64
		wantMatch bool
	}{
		{name: "exact ignores case", pattern: "CHAD", text: "chad", wantScore: 0, wantMatch: true},
		{name: "one missing letter", pattern: "Germny", text: "Germany", wantScore: 1.0 / 6, wantMatch: true},
		{name: "one extra letter", pattern: "Chadd", text: "Chad", wantScore: 0.2, wantMatch: true},
		{name: "late exact substring", pattern: "chad", text: "Republic of Chad", wantScore: 0.12, wantMatch: true},
		{name: "late typo exceeds threshold", pattern: "chadd", text: "Republic of Chad", wantMatch: false},
		{
			name:      "late typo without location penalty",
			opts:      func(o *query.MatchOptions) { o.IgnoreLocation = true },
			pattern:   "chadd",
			text:      "Republic of Chad",
			wantScore: 0.2,
			wantMatch: true,
		},
		{
			name:      "zero distance only allows the expected location",
			opts:      func(o *query.MatchOptions) { o.Distance = 0 },
			pattern:   "chad",
			text:      "Republic of Chad",
			wantMatch: false,
		},
		{
			name:      "zero distance at the expected location",
			opts:      func(o *query.MatchOptions) { o.Distance = 0 },
			pattern:   "chad",
			text:      "Chad Republic",
			wantScore: 0,
			wantMatch: true,
		},
		{
			name:      "zero threshold requires exact",
			opts:      func(o *query.MatchOptions) { o.Threshold = 0 },
			pattern:   "chadd",
			text:      "Chad",
			wantMatch: false,
		},
		{name: "accents count as errors", pattern: "aland", text: "Åland Islands", wantScore: 0.2, wantMatch: true},
		{
			name:      "accents stripped",
			opts:      func(o *query.MatchOptions) { o.IgnoreDiacritics = true },
			pattern:   "aland",
			text:      "Åland Islands",
			wantScore: 0,
			wantMatch: true,
		},
		{name: "unrelated", pattern: "Chadd", text: "Zimbabwe", wantMatch: false},
		{name: "empty text", pattern: "chad", text: "", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := query.DefaultMatchOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			score, ok := query.NewApproximateMatcher(opts).Score(tt.pattern, tt.text)
			assert.Equal(t, tt.wantMatch, ok, "score %g", score)
			if tt.wantMatch {
				assert.InDelta(t, tt.wantScore, score, 1e-9)
			}
		})
	}
}

func TestApproximate_RanksCloserMatchesFirst(t *testing.T) {
	m := query.NewApproximateMatcher(query.DefaultMatchOptions())

	// "land" starts at 3 in finland and iceland and at 2 in poland.
	hits := m.Rank("land", []string{"Finland", "Iceland", "Poland", "Chad"})
	assert.Equal(t, []int{2, 0, 1}, hitIndexes(hits), "ties keep candidate order")
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestApproximate_FieldNorm(t *testing.T) {
	candidates := []string{"Chad Republic", "Chad"}

	hits := query.NewApproximateMatcher(query.DefaultMatchOptions()).Rank("chad", candidates)
	assert.Equal(t, []int{1, 0}, hitIndexes(hits), "shorter name wins an exact tie")

	opts := query.DefaultMatchOptions()
	opts.IgnoreFieldNorm = true
	hits = query.NewApproximateMatcher(opts).Rank("chad", candidates)
	assert.Equal(t, []int{0, 1}, hitIndexes(hits))
}

func TestApproximate_EmptyPatternKeepsAll(t *testing.T) {
	m := query.NewApproximateMatcher(query.DefaultMatchOptions())
	hits := m.Rank("   ", []string{"b", "a", "c"})
	assert.Equal(t, []int{0, 1, 2}, hitIndexes(hits))
}

func TestSubsequence_Rank(t *testing.T) {
	m := query.NewSubsequenceMatcher()

	t.Run("excludes non-subsequences", func(t *testing.T) {
		hits := m.Rank("chd", []string{"Zimbabwe", "Chad", "Albania"})
		assert.Equal(t, []int{1}, hitIndexes(hits))
	})

	t.Run("consecutive beats scattered", func(t *testing.T) {
		hits := m.Rank("ch", []string{"Czech Republic", "Chad"})
		require.Len(t, hits, 2)
		assert.Equal(t, 1, hits[0].Index)
	})

	t.Run("typo is not a subsequence", func(t *testing.T) {
		hits := m.Rank("Chadd", []string{"Chad"})
		assert.Empty(t, hits)
	})

	t.Run("empty pattern keeps all", func(t *testing.T) {
		hits := m.Rank("", []string{"b", "a"})
		assert.Equal(t, []int{0, 1}, hitIndexes(hits))
	})
}
