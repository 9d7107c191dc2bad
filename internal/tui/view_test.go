package tui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/countries/internal/country"
	"github.com/rshade/countries/internal/query"
)

func TestRenderDetail(t *testing.T) {
	countries := sampleCountries()

	tests := []struct {
		name        string
		country     country.Country
		contains    []string
		notContains []string
	}{
		{
			name:    "complete record",
			country: countries[0],
			contains: []string{
				"COUNTRY DETAIL",
				"Flag:", "🇿🇼", "https://flagcdn.com/w320/zw.png",
				"Country Name:", "Republic of Zimbabwe",
				"CCA2:", "ZW", "CCA3:", "ZWE",
				"Calling Code:", "+2",
			},
			notContains: []string{country.FlagPlaceholder},
		},
		{
			name:    "no png flag",
			country: countries[2],
			contains: []string{
				country.FlagPlaceholder,
				"Native Country Names:", "جمهورية تشاد, République du Tchad",
			},
		},
		{
			name:     "alternative spellings joined",
			country:  countries[1],
			contains: []string{"Alternative Country Name:", "AL, Shqipëri"},
		},
		{
			name:     "empty record",
			country:  country.Country{},
			contains: []string{"COUNTRY DETAIL", "Country Name:", country.FlagPlaceholder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderDetail(tt.country, defaultWidth, defaultHeight)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderDetail_FillsScreen(t *testing.T) {
	out := RenderDetail(sampleCountries()[0], 100, 30)
	assert.Equal(t, 100, lipgloss.Width(out))
	assert.Equal(t, 30, lipgloss.Height(out))
}

func TestRenderCountryTable(t *testing.T) {
	engine := newEngine(t)
	state := query.NewState().WithCountries(sampleCountries(), engine.Sorter())

	t.Run("rows and sort indicator", func(t *testing.T) {
		out := RenderCountryTable(engine.View(state), query.ColumnName, query.OrderAsc, 0)
		assert.Contains(t, out, "Country Name ▲")
		assert.Contains(t, out, "CCA2")
		assert.Contains(t, out, "Calling Code")
		assert.Contains(t, out, "Albania")
		assert.Contains(t, out, "TCD")
		assert.NotContains(t, out, NoRecordsText)
		assert.Less(t, strings.Index(out, "Albania"), strings.Index(out, "Chad"))
	})

	t.Run("no records", func(t *testing.T) {
		result := engine.View(state.WithSearch("xyzzy"))
		out := RenderCountryTable(result, query.ColumnCCA3, query.OrderDesc, 0)
		assert.Contains(t, out, "CCA3 ▼")
		assert.NotContains(t, out, "Albania")

		lines := strings.Split(out, "\n")
		require.GreaterOrEqual(t, len(lines), 5)
		row, bottom := lines[len(lines)-2], lines[len(lines)-1]
		assert.Contains(t, row, NoRecordsText, "the placeholder is a body row")
		assert.True(t, strings.HasPrefix(row, "│") && strings.HasSuffix(row, "│"), "inside the side borders")
		assert.True(t, strings.HasPrefix(bottom, "╰"), "the table closes below the placeholder")
		assert.NotContains(t, bottom, "┴", "the row spans every column")
		assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(row))
		assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(bottom))
	})
}

func TestRenderPlaceholder(t *testing.T) {
	out := RenderPlaceholder(40)
	assert.Contains(t, out, NoRecordsText)
	assert.Equal(t, 40, lipgloss.Width(out))
}

func TestColumnWidths(t *testing.T) {
	tests := []struct {
		name  string
		total int
	}{
		{name: "default", total: defaultWidth},
		{name: "wide", total: 240},
		{name: "narrow", total: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widths := columnWidths(tt.total)
			require.Len(t, widths, len(query.Columns()))
			for _, w := range widths {
				assert.Positive(t, w)
			}
			assert.Equal(t, colWidthFlag, widths[0])
			assert.GreaterOrEqual(t, widths[1], widths[4], "name gets the largest share")
		})
	}

	// Widths fill the screen when there is room.
	sum := 0
	for _, w := range columnWidths(defaultWidth) {
		sum += w + cellPaddingX
	}
	assert.Equal(t, defaultWidth, sum)
}

func TestColumnLabelsMatchAcrossViews(t *testing.T) {
	m := loadedModel(t, sampleCountries())
	engine := newEngine(t)
	styled := RenderCountryTable(engine.View(m.State()), query.ColumnName, query.OrderAsc, 0)
	detail := RenderDetail(sampleCountries()[0], 100, 30)

	headers := m.columns()
	for i, col := range query.Columns() {
		assert.Contains(t, headers[i].Title, col.Title(), "browser header")
		assert.Contains(t, styled, col.Title(), "list header")
		assert.Contains(t, detail, col.Title()+":", "detail label")
	}
}

func TestRenderLoading(t *testing.T) {
	assert.Equal(t, "Loading...", RenderLoading(nil))
	assert.Contains(t, RenderLoading(NewLoadingState()), "Loading countries...")
}

func TestDetectOutputMode(t *testing.T) {
	t.Run("plain flag", func(t *testing.T) {
		assert.Equal(t, OutputModePlain, DetectOutputMode(true, false, true))
	})
	t.Run("no color flag", func(t *testing.T) {
		assert.Equal(t, OutputModePlain, DetectOutputMode(false, true, false))
	})
	t.Run("NO_COLOR env", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, OutputModePlain, DetectOutputMode(true, false, false))
	})
	t.Run("dumb terminal", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("TERM", "dumb")
		assert.Equal(t, OutputModePlain, DetectOutputMode(false, false, false))
	})
	t.Run("never interactive without a terminal", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("TERM", "xterm-256color")
		if IsTTY() {
			t.Skip("stdout is a terminal")
		}
		assert.Equal(t, OutputModeStyled, DetectOutputMode(true, false, false))
		assert.Equal(t, OutputModePlain, DetectOutputMode(false, false, false))
	})
}

func TestOutputModeString(t *testing.T) {
	assert.Equal(t, "plain", OutputModePlain.String())
	assert.Equal(t, "styled", OutputModeStyled.String())
	assert.Equal(t, "interactive", OutputModeInteractive.String())
	assert.Equal(t, "unknown", OutputMode(42).String())
}

func TestKeyMapHelp(t *testing.T) {
	keys := DefaultKeyMap()
	assert.NotEmpty(t, keys.ShortHelp())

	var bound []key.Binding
	for _, group := range keys.FullHelp() {
		bound = append(bound, group...)
	}
	assert.Len(t, bound, reflect.TypeOf(keys).NumField(), "every binding appears in the full help")
	assert.Contains(t, bound, keys.Close)
	assert.Equal(t, 4, fullHelpExtraLines(keys))
}
