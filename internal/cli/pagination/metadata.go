package pagination

import "github.com/rshade/countries/internal/query"

// PaginationMeta contains metadata about paginated results.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage  int  `json:"current_page"  yaml:"current_page"`
	PageSize     int  `json:"page_size"     yaml:"page_size"`
	TotalPages   int  `json:"total_pages"   yaml:"total_pages"`
	TotalItems   int  `json:"total_items"   yaml:"total_items"`
	TotalRecords int  `json:"total_records" yaml:"total_records"`
	HasPrevious  bool `json:"has_previous"  yaml:"has_previous"`
	HasNext      bool `json:"has_next"      yaml:"has_next"`
}

// NewPaginationMeta creates pagination metadata for one rendered page.
// TotalItems counts the rows left by the search; TotalRecords counts all of them.
func NewPaginationMeta(result query.Result) PaginationMeta {
	currentPage := result.Page + 1
	return PaginationMeta{
		CurrentPage:  currentPage,
		PageSize:     result.RowsPerPage,
		TotalPages:   result.TotalPages,
		TotalItems:   result.Filtered,
		TotalRecords: result.Total,
		HasPrevious:  currentPage > 1,
		HasNext:      currentPage < result.TotalPages,
	}
}
