package query

import (
	"fmt"
	"strings"

	"github.com/rshade/countries/internal/country"
)

// State is the complete view state of the country table. Transitions are
// value-receiver methods that return a new State and never mutate the
// receiver or its Countries slice.
type State struct {
	// Countries is the canonical list, kept sorted by SortColumn and SortOrder.
	Countries   []country.Country `json:"countries"`
	Page        int               `json:"page"`
	RowsPerPage int               `json:"rowsPerPage"`
	Search      string            `json:"search"`
	SortColumn  Column            `json:"sortColumn"`
	SortOrder   Order             `json:"sortOrder"`
	// Selected is the record shown in the detail overlay; nil when closed.
	Selected  *country.Country `json:"selected,omitempty"`
	LoadError string           `json:"loadError,omitempty"`
}

// NewState returns an empty State sorted by name ascending with the default page size.
func NewState() State {
	return State{
		Countries:   []country.Country{},
		RowsPerPage: DefaultRowsPerPage,
		SortColumn:  ColumnName,
		SortOrder:   OrderAsc,
	}
}

// HasSearch reports whether the search text filters anything.
func (s State) HasSearch() bool {
	return strings.TrimSpace(s.Search) != ""
}

// IsOpen reports whether the detail overlay is open.
func (s State) IsOpen() bool {
	return s.Selected != nil
}

// WithSearch stores text and returns to the first page.
func (s State) WithSearch(text string) State {
	s.Search = text
	s.Page = 0
	return s
}

// WithPage moves to page. Negative pages become 0; pages past the end are kept.
func (s State) WithPage(page int) State {
	s.Page = max(page, 0)
	return s
}

// NextPage advances one page unless already on the last of totalPages.
func (s State) NextPage(totalPages int) State {
	if s.Page+1 < totalPages {
		s.Page++
	}
	return s
}

// PrevPage goes back one page unless on the first.
func (s State) PrevPage() State {
	if s.Page > 0 {
		s.Page--
	}
	return s
}

// WithRowsPerPage sets the page size and returns to the first page.
func (s State) WithRowsPerPage(n int) (State, error) {
	if err := ValidateRowsPerPage(n); err != nil {
		return s, err
	}
	s.RowsPerPage = n
	s.Page = 0
	return s, nil
}

// CycleRowsPerPage moves to the next allowed page size and returns to the first page.
func (s State) CycleRowsPerPage() State {
	s.RowsPerPage = NextRowsPerPage(s.RowsPerPage)
	s.Page = 0
	return s
}

// SortBy activates column. Choosing the active column flips the order;
// choosing another column sorts it ascending. The canonical list is replaced
// by the newly sorted one.
func (s State) SortBy(column Column, sorter *Sorter) (State, error) {
	if !column.Sortable() {
		return s, fmt.Errorf("%w: %q", ErrUnsortableColumn, column)
	}
	order := OrderAsc
	if column == s.SortColumn {
		order = s.SortOrder.Toggle()
	}
	return s.WithSort(column, order, sorter)
}

// WithSort sets the column and order explicitly and re-sorts the canonical list.
func (s State) WithSort(column Column, order Order, sorter *Sorter) (State, error) {
	if !column.Sortable() {
		return s, fmt.Errorf("%w: %q", ErrUnsortableColumn, column)
	}
	if order != OrderAsc && order != OrderDesc {
		return s, fmt.Errorf("%w: got %q", ErrInvalidOrder, order)
	}
	s.SortColumn = column
	s.SortOrder = order
	s.Countries = sorter.Sort(s.Countries, column, order)
	return s, nil
}

// WithCountries replaces the canonical list with records sorted by the active
// column and clears any load error. The page is kept as is.
func (s State) WithCountries(records []country.Country, sorter *Sorter) State {
	s.Countries = sorter.Sort(records, s.SortColumn, s.SortOrder)
	s.LoadError = ""
	return s
}

// WithLoadError records a failed load. The canonical list is left untouched.
// A nil error clears the previous failure.
func (s State) WithLoadError(err error) State {
	if err == nil {
		s.LoadError = ""
		return s
	}
	s.LoadError = err.Error()
	return s
}

// Open shows record in the detail overlay.
func (s State) Open(record country.Country) State {
	s.Selected = &record
	return s
}

// Close dismisses the detail overlay.
func (s State) Close() State {
	s.Selected = nil
	return s
}
