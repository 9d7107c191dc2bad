package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/rshade/countries/internal/cli/pagination"
	"github.com/rshade/countries/internal/config"
	"github.com/rshade/countries/internal/country"
	"github.com/rshade/countries/internal/query"
	"github.com/rshade/countries/internal/tui"
)

// maxPlainCellWidth caps plain-text cells so one long native name does not
// push every other column off screen.
const maxPlainCellWidth = 40

// listView is everything the list renderers need.
type listView struct {
	result query.Result
	state  query.State
	locale language.Tag
	mode   tui.OutputMode
	width  int
}

// listEnvelope is the JSON and YAML document for one page.
type listEnvelope struct {
	Countries  []country.Country         `json:"countries"        yaml:"countries"`
	Pagination pagination.PaginationMeta `json:"pagination"       yaml:"pagination"`
	Search     string                    `json:"search,omitempty" yaml:"search,omitempty"`
	Sort       string                    `json:"sort"             yaml:"sort"`
}

func newListEnvelope(v listView) listEnvelope {
	return listEnvelope{
		Countries:  v.result.Rows,
		Pagination: pagination.NewPaginationMeta(v.result),
		Search:     v.state.Search,
		Sort:       string(v.state.SortColumn) + ":" + string(v.state.SortOrder),
	}
}

// renderList writes v in the given output format.
func renderList(w io.Writer, format string, v listView) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newListEnvelope(v))
	case config.OutputNDJSON:
		return renderNDJSON(w, v.result.Rows)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2) //nolint:mnd // Indent width.
		if err := enc.Encode(newListEnvelope(v)); err != nil {
			return err
		}
		return enc.Close()
	case config.OutputTable:
		if v.mode == tui.OutputModePlain {
			return renderPlainTable(w, v)
		}
		return renderStyledTable(w, v)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedOutput, format)
	}
}

// renderNDJSON writes one country per line.
func renderNDJSON(w io.Writer, rows []country.Country) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func renderStyledTable(w io.Writer, v listView) error {
	table := tui.RenderCountryTable(v.result, v.state.SortColumn, v.state.SortOrder, v.width)
	_, err := fmt.Fprintf(w, "%s\n%s\n", table, footer(v))
	return err
}

func renderPlainTable(w io.Writer, v listView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // Column gap.

	cols := query.Columns()
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Title()
		if col == v.state.SortColumn {
			headers[i] += " " + v.state.SortOrder.Indicator()
		}
	}
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, record := range v.result.Rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = runewidth.Truncate(col.Value(record), maxPlainCellWidth, "...")
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if v.result.NoRecords() {
		if _, err := fmt.Fprintln(w, tui.NoRecordsText); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, footer(v))
	return err
}

// footer summarises the page with locale-formatted numbers.
func footer(v listView) string {
	p := message.NewPrinter(v.locale)
	r := v.result
	return p.Sprintf("Page %d/%d · %d of %d countries",
		r.Page+1, max(r.TotalPages, 1), r.Filtered, r.Total)
}
