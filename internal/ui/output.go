package ui

import "fmt"

// Status symbols. Status is never shown by color alone.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

func mark(symbol, msg string) string {
	return symbol + " " + msg
}

// Successf formats a message prefixed with a check mark.
func Successf(format string, args ...any) string {
	return mark(SymbolSuccess, fmt.Sprintf(format, args...))
}

// Error prefixes msg with a cross.
func Error(msg string) string { return mark(SymbolError, msg) }

// Warning prefixes msg with a warning sign. Argument warnings use it.
func Warning(msg string) string { return mark(SymbolWarning, msg) }

// Info prefixes msg with an info sign.
func Info(msg string) string { return mark(SymbolInfo, msg) }

// Header renders a section header such as a category title.
func Header(msg string) string {
	return Bold.Render(msg)
}

// ID renders a command id in the accent color.
func ID(id string) string {
	return Accent.Render(id)
}

// Hint renders secondary text.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Severity renders a risk severity: muted when none, one warning sign for
// caution and two in bold for dangerous.
func Severity(level string) string {
	switch level {
	case "caution":
		return mark(SymbolWarning, "caution")
	case "dangerous":
		return Bold.Render(mark(SymbolWarning+SymbolWarning, "dangerous"))
	default:
		return Muted.Render("none")
	}
}

// Count renders "(1 error)" or "(3 errors)".
func Count(n int, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return fmt.Sprintf("(%d %s)", n, noun)
}
