package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// ErrCommandNotFound is returned when a command id is not in the catalogue.
var ErrCommandNotFound = errors.New("command not found")

// Catalog is an immutable, indexed set of command definitions.
// It is safe for concurrent use once built.
type Catalog struct {
	commands   map[string]*Command
	order      []string
	categories []Category
}

// New builds a catalogue from the given commands after checking its invariants.
func New(cmds ...*Command) (*Catalog, error) {
	b := NewBuilder()
	for _, c := range cmds {
		b.add(c, "")
	}
	return b.Build()
}

// Lookup returns the command with the given id.
func (c *Catalog) Lookup(id string) (*Command, bool) {
	cmd, ok := c.commands[id]
	return cmd, ok
}

// ByID returns the command with the given id or ErrCommandNotFound.
func (c *Catalog) ByID(id string) (*Command, error) {
	cmd, ok := c.commands[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, id)
	}
	return cmd, nil
}

// Commands returns every command in load order.
func (c *Catalog) Commands() []*Command {
	out := make([]*Command, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.commands[id])
	}
	return out
}

// IDs returns every command id in load order.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.order)
}

// Len returns the number of commands.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Categories returns the known categories sorted by display order.
func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Filter returns the commands in the given category that support os.
// Empty filters match everything.
func (c *Catalog) Filter(category, os string) []*Command {
	var out []*Command
	for _, cmd := range c.Commands() {
		if category != "" && cmd.Category != category {
			continue
		}
		if !cmd.SupportsOS(os) {
			continue
		}
		out = append(out, cmd)
	}
	return out
}
