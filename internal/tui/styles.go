package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 120
	defaultHeight = 40
	minHeight     = 5

	// borderPadding accounts for the left and right border of boxed content.
	borderPadding = 2

	// chromeHeight is the number of lines around the table body: title,
	// search, header (two lines), footer, status and help.
	chromeHeight = 7

	// tableHeaderLines is the header text plus its bottom border.
	tableHeaderLines = 2

	filterInputCharLimit = 64
	filterInputWidth     = 40
)

// Colour palette.
const (
	colorAccent   = lipgloss.Color("63")
	colorSubtle   = lipgloss.Color("241")
	colorBorder   = lipgloss.Color("240")
	colorValue    = lipgloss.Color("39")
	colorCritical = lipgloss.Color("196")
	colorInfo     = lipgloss.Color("42")
	colorSelectFg = lipgloss.Color("229")
	colorSelectBg = lipgloss.Color("57")
)

// Shared styles.
//
//nolint:gochecknoglobals // Read-only lipgloss styles shared across views.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(colorValue)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	CriticalStyle = lipgloss.NewStyle().
			Foreground(colorCritical).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(colorInfo)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(colorSubtle).
				Italic(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2) //nolint:mnd // Vertical and horizontal padding.

	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colorBorder).
				BorderBottom(true).
				Bold(true).
				Padding(0, 1)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(colorSelectFg).
				Background(colorSelectBg).
				Bold(false)
)
