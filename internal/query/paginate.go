package query

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultRowsPerPage is the initial page size.
const DefaultRowsPerPage = 25

// AllowedRowsPerPage lists the selectable page sizes in cycle order.
//
//nolint:gochecknoglobals // Fixed set of page sizes.
var AllowedRowsPerPage = []int{10, 25, 100}

// ErrInvalidRowsPerPage is returned when a page size is not in AllowedRowsPerPage.
var ErrInvalidRowsPerPage = errors.New("rows per page not allowed")

// IsAllowedRowsPerPage reports whether n is a selectable page size.
func IsAllowedRowsPerPage(n int) bool {
	return slices.Contains(AllowedRowsPerPage, n)
}

// ValidateRowsPerPage returns ErrInvalidRowsPerPage for sizes outside AllowedRowsPerPage.
func ValidateRowsPerPage(n int) error {
	if !IsAllowedRowsPerPage(n) {
		return fmt.Errorf("%w: %d (allowed: %v)", ErrInvalidRowsPerPage, n, AllowedRowsPerPage)
	}
	return nil
}

// NextRowsPerPage returns the page size after n in AllowedRowsPerPage,
// wrapping around. Unknown sizes yield the default.
func NextRowsPerPage(n int) int {
	i := slices.Index(AllowedRowsPerPage, n)
	if i < 0 {
		return DefaultRowsPerPage
	}
	return AllowedRowsPerPage[(i+1)%len(AllowedRowsPerPage)]
}

// Paginate returns items[page*rowsPerPage : page*rowsPerPage+rowsPerPage]
// clipped to the slice. A page past the end, a negative page or a
// non-positive page size yields an empty, non-nil slice; the page is never
// clamped.
func Paginate[T any](items []T, page, rowsPerPage int) []T {
	if page < 0 || page >= PageCount(len(items), rowsPerPage) {
		return []T{}
	}
	start := page * rowsPerPage
	end := min(start+rowsPerPage, len(items))
	return items[start:end:end]
}

// PageCount returns the number of pages needed for total items.
func PageCount(total, rowsPerPage int) int {
	if total <= 0 || rowsPerPage <= 0 {
		return 0
	}
	return (total + rowsPerPage - 1) / rowsPerPage
}
