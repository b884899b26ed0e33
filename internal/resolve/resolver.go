// Package resolve turns a command definition and a set of argument values
// into a validated, ordered and quoted command line.
//
// Resolution is pure: it performs no I/O and keeps no state between calls,
// so an Engine can be shared freely between goroutines.
package resolve

import (
	"strings"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

// Accessor looks up command definitions by id.
type Accessor interface {
	Lookup(id string) (*catalog.Command, bool)
}

// Engine resolves commands against a catalogue.
type Engine struct {
	catalog Accessor
}

// NewEngine returns an engine reading definitions from a.
func NewEngine(a Accessor) *Engine {
	return &Engine{catalog: a}
}

// Result is the outcome of resolving one command. Command is empty
// whenever Errors is not.
type Result struct {
	ID       string              `json:"id"`
	Tokens   []string            `json:"tokens"`
	Command  string              `json:"command"`
	Errors   ErrorList           `json:"errors"`
	Severity catalog.DangerLevel `json:"risk_severity"`
	Warnings []string            `json:"warnings"`
	Values   Normalized          `json:"values,omitempty"`
}

// OK reports whether the resolution produced a command.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Resolve looks up a command by id and resolves it.
func (e *Engine) Resolve(id string, values Values) *Result {
	cmd, ok := e.catalog.Lookup(id)
	if !ok {
		return &Result{
			ID:       id,
			Tokens:   []string{},
			Errors:   ErrorList{errUnknownCommand(id)},
			Severity: catalog.DangerNone,
			Warnings: []string{},
		}
	}
	return ResolveCommand(cmd, values)
}

// ResolveCommand resolves values against a command definition.
func ResolveCommand(cmd *catalog.Command, values Values) *Result {
	norm, errs := Validate(cmd, values)
	tokens, gaps := Assemble(cmd, norm)
	errs = append(errs, gaps...)
	severity, warnings := AssessDanger(cmd, norm)

	r := &Result{
		ID:       cmd.ID,
		Tokens:   tokens,
		Errors:   errs,
		Severity: severity,
		Warnings: warnings,
		Values:   norm.PresentOnly(),
	}
	if len(errs) > 0 {
		r.Tokens = []string{}
		return r
	}
	r.Errors = ErrorList{}
	r.Command = serialize(cmd.Base, tokens)
	return r
}

func serialize(base string, tokens []string) string {
	parts := make([]string, 0, len(tokens)+1)
	parts = append(parts, base)
	parts = append(parts, tokens...)
	return strings.Join(parts, " ")
}

// ExampleMismatch describes a catalogue example whose output differs from
// what the engine produces.
type ExampleMismatch struct {
	Command string    `json:"command"`
	Example string    `json:"example"`
	Want    string    `json:"want"`
	Got     string    `json:"got"`
	Errors  ErrorList `json:"errors,omitempty"`
}

// CheckExamples resolves every example of cmd and returns the mismatches.
func CheckExamples(cmd *catalog.Command) []ExampleMismatch {
	var out []ExampleMismatch
	for _, ex := range cmd.Examples {
		r := ResolveCommand(cmd, Values(ex.Values))
		if r.OK() && r.Command == ex.Output {
			continue
		}
		out = append(out, ExampleMismatch{
			Command: cmd.ID,
			Example: ex.Name,
			Want:    ex.Output,
			Got:     r.Command,
			Errors:  r.Errors,
		})
	}
	return out
}
