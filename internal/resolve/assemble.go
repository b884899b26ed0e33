package resolve

import (
	"github.com/aidanlsb/cmdforge/internal/catalog"
	"github.com/aidanlsb/cmdforge/internal/shellquote"
)

// Assemble renders the present arguments as tokens: flags in declaration
// order, then positionals in position order. A present positional that
// follows an empty one is a gap and is reported instead of rendered.
func Assemble(cmd *catalog.Command, norm Normalized) ([]string, ErrorList) {
	tokens := []string{}
	var errs ErrorList

	for _, a := range cmd.Args {
		if a.Positional || !norm.Present(a.ID) {
			continue
		}
		tokens = append(tokens, flagTokens(a, norm[a.ID])...)
	}

	hole := false
	for _, a := range cmd.Positionals() {
		if !norm.Present(a.ID) {
			hole = true
			continue
		}
		if hole {
			err := errPositionalGap(a.Position, a.ID)
			err.Command = cmd.ID
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, renderValue(a, norm[a.ID]))
	}

	return tokens, errs
}

func flagTokens(a *catalog.Argument, v Value) []string {
	if a.Type == catalog.ArgTypeCheckbox {
		return []string{a.Flag}
	}
	value := renderValue(a, v)
	if catalog.IsPrefixFlag(a.Flag) {
		return []string{a.Flag + value}
	}
	return []string{a.Flag, value}
}

// renderValue applies the quoting policy. Only text is ever quoted:
// always when the argument is free-form, otherwise when it contains a
// shell metacharacter.
func renderValue(a *catalog.Argument, v Value) string {
	s := v.String()
	if a.Type != catalog.ArgTypeText {
		return s
	}
	if a.Freeform {
		return shellquote.Quote(s)
	}
	return shellquote.QuoteIfNeeded(s)
}
