package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when stdout is not a terminal or its size is
// unknown.
const DefaultTermWidth = 120

// minContentWidth keeps tables and wrapped markdown readable in very
// narrow terminals.
const minContentWidth = 20

// TerminalWidth returns the width of stdout in columns.
func TerminalWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return DefaultTermWidth
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return DefaultTermWidth
}

// ContentWidth returns TerminalWidth minus margin columns.
func ContentWidth(margin int) int {
	return clampWidth(TerminalWidth(), margin)
}

func clampWidth(total, margin int) int {
	if w := total - margin; w > minContentWidth {
		return w
	}
	return minContentWidth
}
