package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rshade/countries/internal/country"
)

// Column identifies a table column.
type Column string

// Table columns in display order.
const (
	ColumnFlag         Column = "flag"
	ColumnName         Column = "name"
	ColumnCCA2         Column = "cca2"
	ColumnCCA3         Column = "cca3"
	ColumnNativeName   Column = "nativeName"
	ColumnAltSpellings Column = "altSpellings"
	ColumnIDD          Column = "idd"
)

// Sort errors.
var (
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnsortableColumn  = errors.New("column is not sortable")
	ErrInvalidOrder      = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'column' or 'column:order' (e.g., 'name:desc')")
)

// Columns returns every column in display order.
func Columns() []Column {
	return []Column{
		ColumnFlag, ColumnName, ColumnCCA2, ColumnCCA3,
		ColumnNativeName, ColumnAltSpellings, ColumnIDD,
	}
}

// SortableColumns returns the columns that have a comparator, in display order.
func SortableColumns() []Column {
	return []Column{
		ColumnName, ColumnCCA2, ColumnCCA3,
		ColumnNativeName, ColumnAltSpellings, ColumnIDD,
	}
}

// Title returns the column label. Every view (the browser, list output and
// the detail overlay) uses these labels.
func (c Column) Title() string {
	switch c {
	case ColumnFlag:
		return "Flag"
	case ColumnName:
		return "Country Name"
	case ColumnCCA2:
		return "CCA2"
	case ColumnCCA3:
		return "CCA3"
	case ColumnNativeName:
		return "Native Country Names"
	case ColumnAltSpellings:
		return "Alternative Country Name"
	case ColumnIDD:
		return "Calling Code"
	default:
		return string(c)
	}
}

// Sortable reports whether c has a comparator.
func (c Column) Sortable() bool {
	return slices.Contains(SortableColumns(), c)
}

// Value returns the text shown in column c for record.
func (c Column) Value(record country.Country) string {
	switch c {
	case ColumnFlag:
		return record.FlagCell()
	case ColumnName:
		return record.Name.Official
	case ColumnCCA2:
		return record.CCA2
	case ColumnCCA3:
		return record.CCA3
	case ColumnNativeName:
		return record.NativeNamesCell()
	case ColumnAltSpellings:
		return record.AltSpellingsCell()
	case ColumnIDD:
		return record.IDD.Root
	default:
		return ""
	}
}

// Next returns the sortable column after c, wrapping around. A non-sortable
// column yields the first sortable one.
func (c Column) Next() Column {
	return c.step(1)
}

// Prev returns the sortable column before c, wrapping around.
func (c Column) Prev() Column {
	return c.step(-1)
}

func (c Column) step(delta int) Column {
	cols := SortableColumns()
	i := slices.Index(cols, c)
	if i < 0 {
		return cols[0]
	}
	return cols[(i+delta+len(cols))%len(cols)]
}

// ParseColumn resolves a column name case-insensitively. The flag column is
// recognised but rejected with ErrUnsortableColumn.
func ParseColumn(s string) (Column, error) {
	name := strings.TrimSpace(s)
	for _, c := range Columns() {
		if !strings.EqualFold(string(c), name) {
			continue
		}
		if !c.Sortable() {
			return "", fmt.Errorf("%w: %q", ErrUnsortableColumn, name)
		}
		return c, nil
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownColumn, name, joinColumns(SortableColumns()))
}

func joinColumns(cols []Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Order is a sort direction.
type Order string

// Sort orders.
const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Toggle returns the opposite order.
func (o Order) Toggle() Order {
	if o == OrderDesc {
		return OrderAsc
	}
	return OrderDesc
}

// Indicator returns the header arrow for o.
func (o Order) Indicator() string {
	if o == OrderDesc {
		return "▼"
	}
	return "▲"
}

// ParseOrder parses "asc" or "desc" case-insensitively. Empty means asc.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderAsc:
		return OrderAsc, nil
	case OrderDesc:
		return OrderDesc, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidOrder, s)
	}
}

// sortPartsMax is the maximum number of parts in a sort string (column:order).
const sortPartsMax = 2

// ParseSort parses "column" or "column:order". An empty string selects
// name ascending.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(s string) (column Column, order Order, err error) {
	if strings.TrimSpace(s) == "" {
		return ColumnName, OrderAsc, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, s)
	}
	if strings.TrimSpace(parts[0]) == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, s)
	}

	if column, err = ParseColumn(parts[0]); err != nil {
		return "", "", err
	}
	order = OrderAsc
	if len(parts) == sortPartsMax {
		if order, err = ParseOrder(parts[1]); err != nil {
			return "", "", err
		}
	}
	return column, order, nil
}

// Sorter orders records with locale-aware, case-insensitive collation.
// A Sorter is not safe for concurrent use.
type Sorter struct {
	tag      language.Tag
	collator *collate.Collator
}

// NewSorter returns a Sorter collating for tag.
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{
		tag:      tag,
		collator: collate.New(tag, collate.IgnoreCase),
	}
}

// Locale returns the collation locale.
func (s *Sorter) Locale() language.Tag {
	return s.tag
}

// Compare orders a and b ascending by column. Records that collate equally
// fall back to a byte comparison and then to the official name and cca3, so
// descending order is always the exact reverse of ascending.
func (s *Sorter) Compare(a, b country.Country, column Column) int {
	av, bv := column.Value(a), column.Value(b)
	if c := s.collator.CompareString(av, bv); c != 0 {
		return c
	}
	if c := strings.Compare(av, bv); c != 0 {
		return c
	}
	if column != ColumnName {
		if c := s.collator.CompareString(a.Name.Official, b.Name.Official); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name.Official, b.Name.Official); c != 0 {
			return c
		}
	}
	return strings.Compare(a.CCA3, b.CCA3)
}

// Sort returns a new slice of records ordered by column and order. The input
// is not modified. Sorting by a non-sortable column returns a copy in the
// original order.
func (s *Sorter) Sort(records []country.Country, column Column, order Order) []country.Country {
	out := slices.Clone(records)
	if out == nil {
		out = []country.Country{}
	}
	if !column.Sortable() {
		return out
	}
	slices.SortStableFunc(out, func(a, b country.Country) int {
		return s.Compare(a, b, column)
	})
	if order == OrderDesc {
		slices.Reverse(out)
	}
	return out
}
