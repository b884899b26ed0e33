package resolve

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

// Code identifies the kind of a validation error.
type Code string

const (
	CodeInvalidNumber        Code = "INVALID_NUMBER"
	CodeOutOfRange           Code = "OUT_OF_RANGE"
	CodeInvalidOption        Code = "INVALID_OPTION"
	CodeMissingRequired      Code = "MISSING_REQUIRED"
	CodeConflictingArguments Code = "CONFLICTING_ARGUMENTS"
	CodeUnmetDependency      Code = "UNMET_DEPENDENCY"
	CodePositionalGap        Code = "POSITIONAL_GAP"
	CodeUnknownCommand       Code = "UNKNOWN_COMMAND"
	CodeUnknownArgument      Code = "UNKNOWN_ARGUMENT"
	CodeInvalidOperator      Code = "INVALID_OPERATOR"
)

// ValidationError is one problem found while resolving a command.
// Arg and Other name the arguments involved; Position is set for gaps.
type ValidationError struct {
	Code     Code   `json:"code"`
	Command  string `json:"command,omitempty"`
	Arg      string `json:"arg,omitempty"`
	Other    string `json:"other,omitempty"`
	Position int    `json:"position,omitempty"`
	Message  string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ErrorList is an ordered set of validation errors.
type ErrorList []ValidationError

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Codes returns the error codes in order.
func (l ErrorList) Codes() []Code {
	codes := make([]Code, len(l))
	for i, e := range l {
		codes[i] = e.Code
	}
	return codes
}

// Has reports whether the list contains an error with the given code.
func (l ErrorList) Has(code Code) bool {
	for _, e := range l {
		if e.Code == code {
			return true
		}
	}
	return false
}

func errInvalidNumber(arg string, raw any) ValidationError {
	return ValidationError{
		Code:    CodeInvalidNumber,
		Arg:     arg,
		Message: fmt.Sprintf("argument %q: %q is not a number", arg, fmt.Sprint(raw)),
	}
}

func errOutOfRange(a *catalog.Argument, n float64) ValidationError {
	var bounds string
	switch {
	case a.Min != nil && a.Max != nil:
		bounds = fmt.Sprintf("between %s and %s", catalog.FormatBound(a.Min), catalog.FormatBound(a.Max))
	case a.Min != nil:
		bounds = "at least " + catalog.FormatBound(a.Min)
	default:
		bounds = "at most " + catalog.FormatBound(a.Max)
	}
	return ValidationError{
		Code:    CodeOutOfRange,
		Arg:     a.ID,
		Message: fmt.Sprintf("argument %q: %s is out of range, must be %s", a.ID, formatNumber(n), bounds),
	}
}

func errInvalidOption(a *catalog.Argument, value string) ValidationError {
	return ValidationError{
		Code:    CodeInvalidOption,
		Arg:     a.ID,
		Message: fmt.Sprintf("argument %q: %q is not one of [%s]", a.ID, value, strings.Join(a.OptionValues(), ", ")),
	}
}

func errMissingRequired(arg string) ValidationError {
	return ValidationError{
		Code:    CodeMissingRequired,
		Arg:     arg,
		Message: fmt.Sprintf("argument %q is required", arg),
	}
}

func errConflicting(a, b string) ValidationError {
	return ValidationError{
		Code:    CodeConflictingArguments,
		Arg:     a,
		Other:   b,
		Message: fmt.Sprintf("arguments %q and %q cannot be used together", a, b),
	}
}

func errUnmetDependency(a, b string) ValidationError {
	return ValidationError{
		Code:    CodeUnmetDependency,
		Arg:     a,
		Other:   b,
		Message: fmt.Sprintf("argument %q requires %q", a, b),
	}
}

func errPositionalGap(position int, arg string) ValidationError {
	return ValidationError{
		Code:     CodePositionalGap,
		Arg:      arg,
		Position: position,
		Message:  fmt.Sprintf("positional argument %q at position %d is set but an earlier positional is empty", arg, position),
	}
}

func errUnknownCommand(id string) ValidationError {
	return ValidationError{
		Code:    CodeUnknownCommand,
		Command: id,
		Message: fmt.Sprintf("unknown command %q", id),
	}
}

func errUnknownArgument(cmd, arg string) ValidationError {
	return ValidationError{
		Code:    CodeUnknownArgument,
		Command: cmd,
		Arg:     arg,
		Message: fmt.Sprintf("command %q has no argument %q", cmd, arg),
	}
}

func errInvalidOperator(op Operator) ValidationError {
	msg := "missing chain operator"
	if op != "" {
		msg = fmt.Sprintf("unknown chain operator %q", string(op))
	}
	return ValidationError{
		Code:    CodeInvalidOperator,
		Message: msg,
	}
}
