// Package pagination turns the list command's paging flags into a query.State
// and describes the resulting page for structured output.
//
// This package contains:
//   - PaginationParams: 1-based page, page size, sort and search flags with validation
//   - PaginationMeta: Response metadata for a rendered page
package pagination
