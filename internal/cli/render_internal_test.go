package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rshade/countries/internal/config"
	"github.com/rshade/countries/internal/country"
	"github.com/rshade/countries/internal/query"
	"github.com/rshade/countries/internal/tui"
)

func TestFooter(t *testing.T) {
	tests := []struct {
		name   string
		locale language.Tag
		result query.Result
		want   string
	}{
		{
			name:   "grouped thousands",
			locale: language.English,
			result: query.Result{Page: 0, TotalPages: 50, Filtered: 1234, Total: 1234},
			want:   "Page 1/50 · 1,234 of 1,234 countries",
		},
		{
			name:   "empty result still shows one page",
			locale: language.English,
			result: query.Result{Page: 0, TotalPages: 0, Filtered: 0, Total: 250},
			want:   "Page 1/1 · 0 of 250 countries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, footer(listView{result: tt.result, locale: tt.locale}))
		})
	}
}

func TestRenderPlainTable_TruncatesLongCells(t *testing.T) {
	long := country.Country{
		Name:         country.Name{Official: "The Most Serene Republic With An Exceptionally Long Official Name"},
		AltSpellings: []string{"Short"},
	}
	sorter := query.NewSorter(language.English)
	state := query.NewState().WithCountries([]country.Country{long}, sorter)

	var buf bytes.Buffer
	v := listView{
		result: query.NewEngine(query.NewSubsequenceMatcher(), sorter).View(state),
		state:  state,
		locale: language.English,
		mode:   tui.OutputModePlain,
	}
	require.NoError(t, renderList(&buf, config.OutputTable, v))

	out := buf.String()
	assert.NotContains(t, out, long.Name.Official)
	assert.Contains(t, out, "The Most Serene Republic")
	assert.Contains(t, out, "...")
}

func TestRenderList_UnknownFormat(t *testing.T) {
	err := renderList(&bytes.Buffer{}, "xml", listView{})
	require.ErrorIs(t, err, ErrUnsupportedOutput)
}
