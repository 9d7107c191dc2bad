package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/countries/internal/country"
	"github.com/rshade/countries/internal/query"
)

const (
	detailLabelWidth = 26
	detailMinWidth   = 40
	detailMaxWidth   = 80
)

// RenderDetail renders the modal for c centred in a width x height screen.
// Missing native names and spellings render as empty values; a missing PNG
// flag renders as N/A.
func RenderDetail(c country.Country, width, height int) string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("COUNTRY DETAIL"))
	content.WriteString("\n")

	writeField(&content, query.ColumnFlag.Title(), flagDetail(c))
	writeField(&content, query.ColumnName.Title(), c.Name.Official)
	writeField(&content, query.ColumnCCA2.Title(), c.CCA2)
	writeField(&content, query.ColumnCCA3.Title(), c.CCA3)
	writeField(&content, query.ColumnNativeName.Title(), c.NativeNamesCell())
	writeField(&content, query.ColumnAltSpellings.Title(), c.AltSpellingsCell())
	writeField(&content, query.ColumnIDD.Title(), c.IDD.Root)

	content.WriteString("\n")
	content.WriteString(SubtleStyle.Render("esc/enter/q close · y copy name · click to dismiss"))

	boxWidth := min(max(width-4*borderPadding, detailMinWidth), detailMaxWidth)
	box := BoxStyle.Width(boxWidth).Render(content.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func writeField(content *strings.Builder, label, value string) {
	content.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", detailLabelWidth, label+":")))
	content.WriteString(ValueStyle.Render(value))
	content.WriteString("\n")
}

// flagDetail shows the emoji and image URL, or N/A when there is no PNG.
func flagDetail(c country.Country) string {
	if !c.HasFlag() {
		return country.FlagPlaceholder
	}
	return strings.TrimSpace(c.Flag + " " + c.Flags.PNG)
}
