package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Problem is one catalogue invariant violation.
type Problem struct {
	Source  string `json:"source,omitempty"`
	Command string `json:"command,omitempty"`
	Arg     string `json:"arg,omitempty"`
	Message string `json:"message"`
}

func (p Problem) Error() string {
	var b strings.Builder
	if p.Source != "" {
		b.WriteString(p.Source)
		b.WriteString(": ")
	}
	if p.Command != "" {
		b.WriteString(p.Command)
		if p.Arg != "" {
			b.WriteString(".")
			b.WriteString(p.Arg)
		}
		b.WriteString(": ")
	}
	b.WriteString(p.Message)
	return b.String()
}

// Check validates a single command definition and returns every problem found.
func Check(cmd *Command) []Problem {
	var problems []Problem
	report := func(arg, format string, args ...any) {
		problems = append(problems, Problem{
			Command: cmd.ID,
			Arg:     arg,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if cmd.ID == "" {
		report("", "command id must not be empty")
	}
	if strings.TrimSpace(cmd.Base) == "" {
		report("", "base must not be empty")
	}
	if !cmd.DangerLevel.Valid() {
		report("", "unknown danger_level %q", cmd.DangerLevel)
	}

	ids := make(map[string]bool, len(cmd.Args))
	positions := make(map[int]string)
	for i, a := range cmd.Args {
		if a == nil {
			report("", "argument #%d is empty", i+1)
			continue
		}
		if a.ID == "" {
			report("", "argument #%d has no id", i+1)
			continue
		}
		if ids[a.ID] {
			report(a.ID, "duplicate argument id")
		}
		ids[a.ID] = true

		if !a.Type.Valid() {
			report(a.ID, "unknown type %q", a.Type)
		}

		switch {
		case a.HasFlag() && a.Positional:
			report(a.ID, "argument cannot have both a flag and a position")
		case !a.HasFlag() && !a.Positional:
			report(a.ID, "argument needs a flag or a position")
		case a.Positional && a.Position < 1:
			report(a.ID, "position must be 1 or greater, got %d", a.Position)
		case a.Positional:
			if other, taken := positions[a.Position]; taken {
				report(a.ID, "position %d already used by %q", a.Position, other)
			} else {
				positions[a.Position] = a.ID
			}
		}
		if !a.Positional && a.Position != 0 {
			report(a.ID, "position set on a non-positional argument")
		}

		if a.Type == ArgTypeSelect && len(a.Options) == 0 {
			report(a.ID, "select argument has no options")
		}
		if a.Type != ArgTypeSelect && len(a.Options) > 0 {
			report(a.ID, "options are only allowed on select arguments")
		}
		if (a.Min != nil || a.Max != nil) && a.Type != ArgTypeNumber {
			report(a.ID, "min/max are only allowed on number arguments")
		}
		if a.Min != nil && a.Max != nil && *a.Min > *a.Max {
			report(a.ID, "min %s is greater than max %s", FormatBound(a.Min), FormatBound(a.Max))
		}
		if msg := checkDefault(a); msg != "" {
			report(a.ID, "%s", msg)
		}
	}

	for _, a := range cmd.Args {
		if a == nil || a.ID == "" {
			continue
		}
		for _, ref := range a.ConflictsWith {
			checkRef(a, ref, "conflicts_with", ids, report)
		}
		for _, ref := range a.DependsOn {
			checkRef(a, ref, "depends_on", ids, report)
		}
	}

	return problems
}

func checkRef(a *Argument, ref, field string, ids map[string]bool, report func(string, string, ...any)) {
	switch {
	case ref == a.ID:
		report(a.ID, "%s references itself", field)
	case !ids[ref]:
		report(a.ID, "%s references unknown argument %q", field, ref)
	}
}

// checkDefault returns a message when the default cannot be used for the argument type.
func checkDefault(a *Argument) string {
	if a.Default == nil {
		return ""
	}
	switch a.Type {
	case ArgTypeCheckbox:
		if _, ok := a.Default.(bool); !ok {
			return fmt.Sprintf("checkbox default must be true or false, got %v", a.Default)
		}
	case ArgTypeNumber:
		switch v := a.Default.(type) {
		case int, int64, float64:
		case string:
			if _, err := strconv.ParseFloat(v, 64); err != nil && v != "" {
				return fmt.Sprintf("number default %q is not a number", v)
			}
		default:
			return fmt.Sprintf("number default has unsupported type %T", a.Default)
		}
	case ArgTypeText:
		switch a.Default.(type) {
		case string, int, int64, float64:
		default:
			return fmt.Sprintf("text default has unsupported type %T", a.Default)
		}
	case ArgTypeSelect:
		s, ok := a.Default.(string)
		if !ok {
			return fmt.Sprintf("select default has unsupported type %T", a.Default)
		}
		if s != "" && !a.HasOption(s) {
			return fmt.Sprintf("select default %q is not one of the options", s)
		}
	}
	return ""
}
