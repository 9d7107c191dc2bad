package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rshade/countries/internal/query"
)

// NoRecordsText is shown in place of the table body when nothing matches.
const NoRecordsText = "No records found."

// Fixed column widths; the name, native name and alternative spelling
// columns share whatever is left.
const (
	colWidthFlag    = 6
	colWidthCode    = 6
	colWidthIDD     = 14
	minFlexWidth    = 12
	cellPaddingX    = 2
	flexNameShare   = 40
	flexNativeShare = 30
	percent         = 100
)

// columnWidths splits total across the table's columns in display order.
func columnWidths(total int) []int {
	cols := query.Columns()
	fixed := colWidthFlag + 2*colWidthCode + colWidthIDD + cellPaddingX*len(cols)
	flexible := max(total-fixed, 3*minFlexWidth) //nolint:mnd // Three flexible columns.

	name := flexible * flexNameShare / percent
	native := flexible * flexNativeShare / percent
	alt := flexible - name - native

	return []int{colWidthFlag, name, colWidthCode, colWidthCode, native, alt, colWidthIDD}
}

// columns builds the table columns with the sort indicator on the active one.
func (m BrowserModel) columns() []table.Column {
	widths := columnWidths(m.width)
	cols := query.Columns()
	out := make([]table.Column, len(cols))
	for i, col := range cols {
		title := col.Title()
		if col == m.view.SortColumn {
			title += " " + m.view.SortOrder.Indicator()
		}
		out[i] = table.Column{Title: title, Width: widths[i]}
	}
	return out
}

// tableWidth is the rendered width of the table including cell padding.
func (m BrowserModel) tableWidth() int {
	total := 0
	for _, w := range columnWidths(m.width) {
		total += w + cellPaddingX
	}
	return total
}

// View renders the current view.
func (m BrowserModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateDetail:
		if m.view.Selected != nil {
			return RenderDetail(*m.view.Selected, m.width, m.height)
		}
		return m.renderList()
	case ViewStateList:
		return m.renderList()
	default:
		return ""
	}
}

func (m BrowserModel) renderList() string {
	lines := []string{
		m.renderTitle(),
		m.renderSearchLine(),
		m.renderTable(),
		m.renderFooter(),
		m.renderStatus(),
		m.help.View(m.keys),
	}
	return strings.Join(lines, "\n")
}

func (m BrowserModel) renderTitle() string {
	return TitleStyle.Render("Countries") +
		SubtleStyle.Render(fmt.Sprintf("  %d loaded", m.result.Total))
}

func (m BrowserModel) renderSearchLine() string {
	switch {
	case m.showFilter:
		return LabelStyle.Render("Search: ") + m.textInput.View()
	case m.view.HasSearch():
		return LabelStyle.Render("Search: ") +
			ValueStyle.Render(m.view.Search) +
			SubtleStyle.Render("  (esc to clear)")
	default:
		return SubtleStyle.Render("Press / to search by official name")
	}
}

// renderTable draws the table, or its header and a single placeholder row
// spanning every column when the filter matched nothing.
func (m BrowserModel) renderTable() string {
	if m.result.NoRecords() {
		return renderHeaders(m.columns()) + "\n" + RenderPlaceholder(m.tableWidth())
	}
	return m.table.View()
}

// renderHeaders draws the header row the same way the table does.
func renderHeaders(cols []table.Column) string {
	cells := make([]string, 0, len(cols))
	for _, col := range cols {
		if col.Width <= 0 {
			continue
		}
		cell := lipgloss.NewStyle().
			Width(col.Width).
			MaxWidth(col.Width).
			Inline(true).
			Render(runewidth.Truncate(col.Title, col.Width, "…"))
		cells = append(cells, TableHeaderStyle.Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// RenderPlaceholder centres NoRecordsText across width.
func RenderPlaceholder(width int) string {
	return PlaceholderStyle.
		Width(width).
		Align(lipgloss.Center).
		Render(NoRecordsText)
}

func (m BrowserModel) renderFooter() string {
	r := m.result
	info := fmt.Sprintf(" · %d of %d countries · %d per page · sorted by %s %s",
		r.Filtered, r.Total, r.RowsPerPage,
		m.view.SortColumn.Title(), m.view.SortOrder.Indicator())
	return LabelStyle.Render("Page "+m.paginator.View()) + SubtleStyle.Render(info)
}

func (m BrowserModel) renderStatus() string {
	switch {
	case m.view.LoadError != "":
		return CriticalStyle.Render(fmt.Sprintf("Load failed: %s (ctrl+r to retry)", m.view.LoadError))
	case m.reloading:
		return m.loading.Inline()
	case m.status != "":
		return InfoStyle.Render(m.status)
	default:
		return ""
	}
}
