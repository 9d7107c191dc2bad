package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/rshade/countries/internal/query"
)

// RenderCountryTable renders one page of countries as a static lipgloss table
// for non-interactive terminals. An empty filter result renders the header and
// a single centred NoRecordsText row spanning every column. width <= 0 lets the
// table size itself.
func RenderCountryTable(result query.Result, sortColumn query.Column, order query.Order, width int) string {
	cols := query.Columns()
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Title()
		if col == sortColumn {
			headers[i] += " " + order.Indicator()
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := ltable.New().
		Border(tableBorder).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}

	for _, record := range result.Rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = col.Value(record)
		}
		t = t.Row(cells...)
	}

	if result.NoRecords() {
		return withPlaceholderRow(t.BorderBottom(false).Render())
	}
	return t.Render()
}

//nolint:gochecknoglobals // Read-only border shared by the table and its placeholder row.
var (
	tableBorder      = lipgloss.RoundedBorder()
	tableBorderStyle = lipgloss.NewStyle().Foreground(colorBorder)
)

// withPlaceholderRow closes a header-only table rendered without its bottom
// border: the column junctions under the header end there, and one body row
// carrying NoRecordsText spans the full width.
func withPlaceholderRow(head string) string {
	head = strings.TrimRight(head, " \n")
	lines := strings.Split(head, "\n")
	last := len(lines) - 1
	lines[last] = strings.ReplaceAll(lines[last], tableBorder.Middle, tableBorder.MiddleBottom)

	inner := max(lipgloss.Width(lines[last])-2, len(NoRecordsText)) //nolint:mnd // Left and right border.
	edge := tableBorderStyle.Render
	row := edge(tableBorder.Left) + RenderPlaceholder(inner) + edge(tableBorder.Right)
	bottom := edge(tableBorder.BottomLeft + strings.Repeat(tableBorder.Bottom, inner) + tableBorder.BottomRight)
	return strings.Join(append(lines, row, bottom), "\n")
}
