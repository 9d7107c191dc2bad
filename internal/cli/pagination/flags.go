package pagination

import (
	"errors"
	"fmt"

	"github.com/rshade/countries/internal/query"
)

// Page-based pagination defaults. Pages are 1-based on the command line.
const (
	DefaultPage = 1
	MinPage     = 1
)

// Common validation errors.
var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = errors.New("page-size must be one of 10, 25 or 100")
)

// PaginationParams holds the list command's paging, sorting and search flags.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Page is the 1-based page number.
	Page int

	// PageSize is the number of rows per page; only 10, 25 and 100 are allowed.
	PageSize int

	// Sort is "column" or "column:order" (e.g., "cca3:desc").
	Sort string

	// Search filters official names before paging.
	Search string
}

// NewPaginationParams creates a PaginationParams with default values.
func NewPaginationParams() *PaginationParams {
	return &PaginationParams{
		Page:     DefaultPage,
		PageSize: query.DefaultRowsPerPage,
	}
}

// Validate checks the page, page size and sort expression.
func (p PaginationParams) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if !query.IsAllowedRowsPerPage(p.PageSize) {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if _, _, err := query.ParseSort(p.Sort); err != nil {
		return err
	}
	return nil
}

// Cursor returns the 0-based page index.
func (p PaginationParams) Cursor() int {
	return max(p.Page-MinPage, 0)
}

// Apply validates p and returns state with the page size, sort, search and
// page applied in that order, so the page is not reset by the earlier steps.
func (p PaginationParams) Apply(state query.State, sorter *query.Sorter) (query.State, error) {
	if err := p.Validate(); err != nil {
		return state, err
	}
	column, order, err := query.ParseSort(p.Sort)
	if err != nil {
		return state, err
	}

	if state, err = state.WithRowsPerPage(p.PageSize); err != nil {
		return state, err
	}
	if state, err = state.WithSort(column, order, sorter); err != nil {
		return state, err
	}
	return state.WithSearch(p.Search).WithPage(p.Cursor()), nil
}
