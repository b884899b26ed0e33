// Package shellquote implements the POSIX single-quote policy used when
// rendering argument values into a command line.
package shellquote

import "strings"

// Special lists the characters that force a value into single quotes.
// Characters such as + % = : and / are left alone so that values like
// "+x" or "-%mem" render bare.
const Special = " \t\n$`\"';|&()<>*?[]{},\\!#"

// Quote wraps s in single quotes, escaping any internal single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// NeedsQuoting reports whether s contains a character the shell would interpret.
func NeedsQuoting(s string) bool {
	return strings.ContainsAny(s, Special)
}

// QuoteIfNeeded quotes strings that are likely to be interpreted by a shell.
func QuoteIfNeeded(s string) string {
	if NeedsQuoting(s) {
		return Quote(s)
	}
	return s
}
