// Package catalog holds the command catalogue: the read-only definitions of
// command-line tools, their arguments and the constraints between them.
package catalog

import (
	"slices"
	"strconv"
	"strings"
)

// ArgType is the value type of an argument.
type ArgType string

const (
	ArgTypeText     ArgType = "text"
	ArgTypeCheckbox ArgType = "checkbox"
	ArgTypeNumber   ArgType = "number"
	ArgTypeSelect   ArgType = "select"
)

// Valid reports whether t is one of the known argument types.
func (t ArgType) Valid() bool {
	switch t {
	case ArgTypeText, ArgTypeCheckbox, ArgTypeNumber, ArgTypeSelect:
		return true
	}
	return false
}

// DangerLevel is the baseline risk of a command.
type DangerLevel string

const (
	DangerNone      DangerLevel = "none"
	DangerCaution   DangerLevel = "caution"
	DangerDangerous DangerLevel = "dangerous"
)

// Rank orders danger levels: none < caution < dangerous.
// An empty level ranks as none.
func (l DangerLevel) Rank() int {
	switch l {
	case DangerCaution:
		return 1
	case DangerDangerous:
		return 2
	default:
		return 0
	}
}

// Valid reports whether l is a known level. The empty level is valid and means none.
func (l DangerLevel) Valid() bool {
	switch l {
	case "", DangerNone, DangerCaution, DangerDangerous:
		return true
	}
	return false
}

// Normalized returns l with the empty level mapped to none.
func (l DangerLevel) Normalized() DangerLevel {
	if l == "" {
		return DangerNone
	}
	return l
}

// Max returns the more severe of two levels.
func (l DangerLevel) Max(other DangerLevel) DangerLevel {
	if other.Rank() > l.Rank() {
		return other.Normalized()
	}
	return l.Normalized()
}

// Option is one allowed value of a select argument.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Argument describes one argument, flag or positional slot of a command.
type Argument struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name,omitempty" json:"name,omitempty"`
	Type          ArgType  `yaml:"type" json:"type"`
	Flag          string   `yaml:"flag,omitempty" json:"flag,omitempty"`
	Positional    bool     `yaml:"positional,omitempty" json:"positional,omitempty"`
	Position      int      `yaml:"position,omitempty" json:"position,omitempty"`
	Required      bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Default       any      `yaml:"default,omitempty" json:"default,omitempty"`
	Min           *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max           *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Options       []Option `yaml:"options,omitempty" json:"options,omitempty"`
	Placeholder   string   `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	Warning       string   `yaml:"warning,omitempty" json:"warning,omitempty"`
	Danger        bool     `yaml:"danger,omitempty" json:"danger,omitempty"`
	Freeform      bool     `yaml:"freeform,omitempty" json:"freeform,omitempty"`
	DependsOn     []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	ConflictsWith []string `yaml:"conflicts_with,omitempty" json:"conflicts_with,omitempty"`
	Group         string   `yaml:"group,omitempty" json:"group,omitempty"`
}

// HasFlag reports whether the argument is rendered through a flag token.
func (a *Argument) HasFlag() bool {
	return a.Flag != ""
}

// HasOption reports whether value is one of the select options.
func (a *Argument) HasOption(value string) bool {
	return slices.ContainsFunc(a.Options, func(o Option) bool { return o.Value == value })
}

// OptionValues returns the option values in declaration order.
func (a *Argument) OptionValues() []string {
	values := make([]string, 0, len(a.Options))
	for _, o := range a.Options {
		values = append(values, o.Value)
	}
	return values
}

// Label returns the display name, falling back to the id.
func (a *Argument) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// Example is a worked example: a set of values and the command they produce.
type Example struct {
	Name   string         `yaml:"name" json:"name"`
	Values map[string]any `yaml:"values" json:"values"`
	Output string         `yaml:"output" json:"output"`
}

// Command is the definition of one command-line tool invocation.
type Command struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name,omitempty" json:"name,omitempty"`
	Category    string      `yaml:"category,omitempty" json:"category,omitempty"`
	OS          []string    `yaml:"os,omitempty" json:"os,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Base        string      `yaml:"base" json:"base"`
	Difficulty  string      `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	DangerLevel DangerLevel `yaml:"danger_level,omitempty" json:"danger_level,omitempty"`
	Tags        []string    `yaml:"tags,omitempty" json:"tags,omitempty"`
	Args        []*Argument `yaml:"args,omitempty" json:"args,omitempty"`
	Examples    []Example   `yaml:"examples,omitempty" json:"examples,omitempty"`

	byID map[string]*Argument
}

// Arg returns the argument with the given id.
func (c *Command) Arg(id string) (*Argument, bool) {
	if c.byID != nil {
		a, ok := c.byID[id]
		return a, ok
	}
	for _, a := range c.Args {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Positionals returns the positional arguments sorted by position.
func (c *Command) Positionals() []*Argument {
	var out []*Argument
	for _, a := range c.Args {
		if a.Positional {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(x, y *Argument) int { return x.Position - y.Position })
	return out
}

// SupportsOS reports whether the command lists the given operating system.
// Commands without an os list support every system.
func (c *Command) SupportsOS(os string) bool {
	if len(c.OS) == 0 || os == "" || os == "all" {
		return true
	}
	return slices.Contains(c.OS, os)
}

// Usage returns a one-line synopsis such as "grep [-i] [-v] <pattern> [file]".
func (c *Command) Usage() string {
	usage := c.Base
	for _, a := range c.Args {
		if a.Positional {
			continue
		}
		part := a.Flag
		if a.Type != ArgTypeCheckbox {
			sep := " "
			if IsPrefixFlag(part) {
				sep = ""
			}
			part += sep + "<" + a.ID + ">"
		}
		if !a.Required {
			part = "[" + part + "]"
		}
		usage += " " + part
	}
	for _, a := range c.Positionals() {
		if a.Required {
			usage += " <" + a.ID + ">"
		} else {
			usage += " [" + a.ID + "]"
		}
	}
	return usage
}

func (c *Command) index() {
	c.byID = make(map[string]*Argument, len(c.Args))
	for _, a := range c.Args {
		c.byID[a.ID] = a
	}
}

// IsPrefixFlag reports flags whose value is glued to the flag token:
// assignment forms ("-type=") and bare prefix forms ("-", "+").
func IsPrefixFlag(flag string) bool {
	return strings.HasSuffix(flag, "=") || flag == "-" || flag == "+"
}

// Category describes a group of commands for display.
type Category struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Order       int    `yaml:"order" json:"order"`
}

// FormatBound renders a numeric bound, or "" when unset.
func FormatBound(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
