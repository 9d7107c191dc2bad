package query

import (
	"strings"

	"github.com/rshade/countries/internal/country"
)

// Engine filters and paginates a State's canonical list.
type Engine struct {
	matcher Matcher
	sorter  *Sorter
}

// NewEngine returns an Engine that searches with matcher and sorts with sorter.
func NewEngine(matcher Matcher, sorter *Sorter) *Engine {
	return &Engine{matcher: matcher, sorter: sorter}
}

// Sorter returns the engine's sorter for State.SortBy and State.WithCountries.
func (e *Engine) Sorter() *Sorter {
	return e.sorter
}

// Search returns the records whose official name matches text, best match
// first. Whitespace-only text returns records unchanged.
func (e *Engine) Search(records []country.Country, text string) []country.Country {
	pattern := strings.TrimSpace(text)
	if pattern == "" {
		return records
	}

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name.Official
	}

	hits := e.matcher.Rank(pattern, names)
	out := make([]country.Country, 0, len(hits))
	for _, h := range hits {
		out = append(out, records[h.Index])
	}
	return out
}

// Result is one rendered page of the table.
type Result struct {
	Rows        []country.Country
	Filtered    int
	Total       int
	Page        int
	RowsPerPage int
	TotalPages  int
}

// NoRecords reports whether the filter left nothing to show. A page past the
// end of a non-empty result is not "no records".
func (r Result) NoRecords() bool {
	return r.Filtered == 0
}

// View filters the canonical list by the search text and returns the current page.
func (e *Engine) View(state State) Result {
	filtered := e.Search(state.Countries, state.Search)
	return Result{
		Rows:        Paginate(filtered, state.Page, state.RowsPerPage),
		Filtered:    len(filtered),
		Total:       len(state.Countries),
		Page:        state.Page,
		RowsPerPage: state.RowsPerPage,
		TotalPages:  PageCount(len(filtered), state.RowsPerPage),
	}
}
