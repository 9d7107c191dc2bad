// Package query implements the filter, sort and paginate pipeline behind the
// country table, plus the State reducer that holds the current view.
//
// The canonical list in State is always kept sorted by the active column and
// order. Filtering and pagination are views over it and never mutate it:
//
//	rows = Paginate(Engine.Search(state.Countries, state.Search), state.Page, state.RowsPerPage)
//
// Searching ranks matches best-first; ties keep canonical order.
package query
