package resolve

import (
	"testing"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

// mapAccessor is an in-memory Accessor for tests.
type mapAccessor map[string]*catalog.Command

func (m mapAccessor) Lookup(id string) (*catalog.Command, bool) {
	c, ok := m[id]
	return c, ok
}

func ptr(f float64) *float64 { return &f }

func testCommands() mapAccessor {
	return mapAccessor{
		"ls": {ID: "ls", Base: "ls", Args: []*catalog.Argument{
			{ID: "path", Type: catalog.ArgTypeText, Positional: true, Position: 1},
			{ID: "long", Type: catalog.ArgTypeCheckbox, Flag: "-l"},
			{ID: "all", Type: catalog.ArgTypeCheckbox, Flag: "-a"},
			{ID: "almost-all", Type: catalog.ArgTypeCheckbox, Flag: "-A", ConflictsWith: []string{"all"}},
			{ID: "human", Type: catalog.ArgTypeCheckbox, Flag: "-h", DependsOn: []string{"long"}},
		}},
		"rm": {ID: "rm", Base: "rm", DangerLevel: catalog.DangerNone, Args: []*catalog.Argument{
			{ID: "path", Type: catalog.ArgTypeText, Positional: true, Position: 1, Required: true},
			{ID: "recursive", Type: catalog.ArgTypeCheckbox, Flag: "-r", Danger: true, Warning: "deletes everything inside"},
			{ID: "force", Type: catalog.ArgTypeCheckbox, Flag: "-f", Danger: true, Warning: "no confirmation"},
			{ID: "verbose", Type: catalog.ArgTypeCheckbox, Flag: "-v", Warning: "noisy"},
		}},
		"head": {ID: "head", Base: "head", Args: []*catalog.Argument{
			{ID: "lines", Type: catalog.ArgTypeNumber, Flag: "-n", Min: ptr(1), Max: ptr(1000)},
			{ID: "offset", Type: catalog.ArgTypeNumber, Flag: "-o", Min: ptr(0)},
			{ID: "file", Type: catalog.ArgTypeText, Positional: true, Position: 1},
		}},
		"find": {ID: "find", Base: "find", Args: []*catalog.Argument{
			{ID: "type", Type: catalog.ArgTypeSelect, Flag: "-type=", Options: []catalog.Option{{Value: ""}, {Value: "f"}, {Value: "d"}}},
			{ID: "name", Type: catalog.ArgTypeText, Flag: "-name", Freeform: true},
			{ID: "depth", Type: catalog.ArgTypeNumber, Flag: "-"},
			{ID: "mode", Type: catalog.ArgTypeText, Flag: "+"},
		}},
		"cp": {ID: "cp", Base: "cp", Args: []*catalog.Argument{
			{ID: "source", Type: catalog.ArgTypeText, Positional: true, Position: 1},
			{ID: "dest", Type: catalog.ArgTypeText, Positional: true, Position: 2},
			{ID: "extra", Type: catalog.ArgTypeText, Positional: true, Position: 3},
		}},
		"sort": {ID: "sort", Base: "sort", Args: []*catalog.Argument{
			{ID: "key", Type: catalog.ArgTypeText, Flag: "-k", Default: "1"},
			{ID: "order", Type: catalog.ArgTypeSelect, Flag: "--order", Options: []catalog.Option{{Value: "asc"}, {Value: "desc"}}, Default: "asc"},
			{ID: "parallel", Type: catalog.ArgTypeNumber, Flag: "--parallel", Default: 2},
			{ID: "unique", Type: catalog.ArgTypeCheckbox, Flag: "-u", Default: true},
		}},
	}
}

func mustCommand(t *testing.T, id string) *catalog.Command {
	t.Helper()
	cmd, ok := testCommands()[id]
	if !ok {
		t.Fatalf("test command %q not defined", id)
	}
	return cmd
}

func builtinEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.LoadBuiltin()
	if err != nil {
		t.Fatalf("failed to load builtin catalogue: %v", err)
	}
	return NewEngine(cat)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
