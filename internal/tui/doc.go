// Package tui implements the interactive country browser: a paginated,
// sortable table with fuzzy search and a detail overlay, built on Bubble Tea,
// bubbles and lipgloss. It also renders the static styled table used by the
// list command and decides between interactive, styled and plain output.
package tui
