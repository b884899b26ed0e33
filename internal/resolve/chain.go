package resolve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

// Operator joins two commands of a chain.
type Operator string

const (
	OpPipe Operator = "|"
	OpAnd  Operator = "&&"
	OpOr   Operator = "||"
	OpSeq  Operator = ";"
)

// Operators lists the supported operators.
var Operators = []Operator{OpPipe, OpAnd, OpOr, OpSeq}

// Valid reports whether o is a supported operator.
func (o Operator) Valid() bool {
	return slices.Contains(Operators, o)
}

// ParseOperator returns the operator spelled s.
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.TrimSpace(s))
	if !op.Valid() {
		return "", fmt.Errorf("unknown operator %q", s)
	}
	return op, nil
}

// ChainItem is one command of a chain. Operator joins the item to the one
// before it and is ignored on the first item.
type ChainItem struct {
	Command  string   `yaml:"command" json:"command"`
	Values   Values   `yaml:"values,omitempty" json:"values,omitempty"`
	Operator Operator `yaml:"operator,omitempty" json:"operator,omitempty"`
}

// ChainResult is the outcome of resolving a chain.
type ChainResult struct {
	Command  string              `json:"command"`
	Items    []*Result           `json:"items"`
	Errors   map[int]ErrorList   `json:"errors,omitempty"`
	Severity catalog.DangerLevel `json:"risk_severity"`
	Warnings []string            `json:"warnings"`
}

// OK reports whether the chain produced a command.
func (r *ChainResult) OK() bool {
	return len(r.Errors) == 0
}

// ErrEmptyChain is returned for a chain without items.
var ErrEmptyChain = errors.New("chain has no commands")

// ChainError reports the items that failed, keyed by item index.
type ChainError struct {
	Errors map[int]ErrorList
}

func (e *ChainError) Error() string {
	indexes := make([]int, 0, len(e.Errors))
	for i := range e.Errors {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)
	parts := make([]string, 0, len(indexes))
	for _, i := range indexes {
		parts = append(parts, fmt.Sprintf("item %d: %s", i, e.Errors[i].Error()))
	}
	return "chain failed: " + strings.Join(parts, "; ")
}

// ResolveChain resolves every item and joins the commands with their
// operators. If any item fails the chain has no command and the returned
// error is a *ChainError; the result still carries every item result.
func (e *Engine) ResolveChain(items []ChainItem) (*ChainResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyChain
	}

	res := &ChainResult{
		Items:    make([]*Result, 0, len(items)),
		Errors:   make(map[int]ErrorList),
		Severity: catalog.DangerNone,
		Warnings: []string{},
	}

	var b strings.Builder
	for i, item := range items {
		r := e.Resolve(item.Command, item.Values)
		res.Items = append(res.Items, r)

		errs := slices.Clone(r.Errors)
		if i > 0 && !item.Operator.Valid() {
			errs = append(errs, errInvalidOperator(item.Operator))
		}
		if len(errs) > 0 {
			res.Errors[i] = errs
			continue
		}

		res.Severity = res.Severity.Max(r.Severity)
		res.Warnings = append(res.Warnings, r.Warnings...)
		if i > 0 {
			b.WriteString(" ")
			b.WriteString(string(item.Operator))
			b.WriteString(" ")
		}
		b.WriteString(r.Command)
	}

	if len(res.Errors) > 0 {
		return res, &ChainError{Errors: res.Errors}
	}
	res.Errors = nil
	res.Command = b.String()
	return res, nil
}
