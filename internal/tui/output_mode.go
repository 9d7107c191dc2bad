package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how results are presented.
type OutputMode int

const (
	// OutputModePlain is unstyled text for pipes, files and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is lipgloss-styled static output.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea browser.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks the richest mode the terminal supports. plain and
// noColor force plain output; forceColor allows styled output when stdout is
// not a terminal. NO_COLOR and TERM=dumb are honoured; CI never gets the
// interactive browser.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain || noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if !IsTTY() {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if os.Getenv("CI") != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the width of stdout, or the default when unknown.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
