package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	goslug "github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// file is the on-disk shape of a catalogue document.
type file struct {
	Category   *Category  `yaml:"category"`
	Categories []Category `yaml:"categories"`
	Commands   []*Command `yaml:"commands"`
}

// Builder accumulates catalogue documents. Commands added later replace
// earlier commands with the same id while keeping the original position.
type Builder struct {
	commands   map[string]*Command
	order      []string
	categories map[string]Category
	problems   []Problem
	invalid    map[string][]Problem
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		commands:   make(map[string]*Command),
		categories: make(map[string]Category),
		invalid:    make(map[string][]Problem),
	}
}

// AddBuiltin adds the embedded catalogue.
func (b *Builder) AddBuiltin() error {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return fmt.Errorf("failed to read builtin catalogue: %w", err)
	}
	for _, e := range entries {
		name := "builtin/" + e.Name()
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := b.AddData(data, name); err != nil {
			return err
		}
	}
	return nil
}

// AddPath adds a catalogue file, or every *.yaml and *.yml file of a
// directory in lexical order.
func (b *Builder) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat catalogue %s: %w", path, err)
	}
	if !info.IsDir() {
		return b.addFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("failed to read catalogue directory %s: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	for _, name := range names {
		if err := b.addFile(filepath.Join(path, name)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) addFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalogue file %s: %w", path, err)
	}
	return b.AddData(data, path)
}

// AddData parses one catalogue document. source names it in error messages.
func (b *Builder) AddData(data []byte, source string) error {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse catalogue %s: %w", source, err)
	}

	if doc.Category != nil {
		doc.Categories = append(doc.Categories, *doc.Category)
	}
	for _, cat := range doc.Categories {
		if cat.ID == "" {
			cat.ID = goslug.Make(cat.Name)
		}
		b.categories[cat.ID] = cat
	}

	seen := make(map[string]bool, len(doc.Commands))
	for i, cmd := range doc.Commands {
		if cmd == nil {
			continue
		}
		if cmd.ID == "" && cmd.Name != "" {
			cmd.ID = goslug.Make(cmd.Name)
		}
		if cmd.Category == "" && doc.Category != nil {
			cmd.Category = doc.Category.ID
		}
		if cmd.ID == "" {
			b.problems = append(b.problems, Problem{
				Source:  source,
				Message: fmt.Sprintf("command #%d has no id or name", i+1),
			})
			continue
		}
		if seen[cmd.ID] {
			b.problems = append(b.problems, Problem{
				Source:  source,
				Command: cmd.ID,
				Message: "duplicate command id",
			})
			continue
		}
		seen[cmd.ID] = true
		b.add(cmd, source)
	}
	return nil
}

func (b *Builder) add(cmd *Command, source string) {
	if cmd == nil {
		return
	}
	if _, exists := b.commands[cmd.ID]; !exists {
		b.order = append(b.order, cmd.ID)
	}
	problems := Check(cmd)
	for i := range problems {
		problems[i].Source = source
	}
	b.invalid[cmd.ID] = problems
	b.commands[cmd.ID] = cmd
}

// Build checks the accumulated commands and returns the catalogue.
// It fails with an *InvalidError when any invariant is violated.
func (b *Builder) Build() (*Catalog, error) {
	problems := slices.Clone(b.problems)
	for _, id := range b.order {
		problems = append(problems, b.invalid[id]...)
	}
	if len(problems) > 0 {
		return nil, &InvalidError{Problems: problems}
	}

	cat := &Catalog{
		commands: make(map[string]*Command, len(b.commands)),
		order:    slices.Clone(b.order),
	}
	for id, cmd := range b.commands {
		cmd.DangerLevel = cmd.DangerLevel.Normalized()
		cmd.index()
		cat.commands[id] = cmd
	}
	for _, c := range b.categories {
		cat.categories = append(cat.categories, c)
	}
	slices.SortFunc(cat.categories, func(x, y Category) int {
		if x.Order != y.Order {
			return x.Order - y.Order
		}
		return strings.Compare(x.ID, y.ID)
	})
	return cat, nil
}

// Parse builds a catalogue from a single document.
func Parse(data []byte, source string) (*Catalog, error) {
	b := NewBuilder()
	if err := b.AddData(data, source); err != nil {
		return nil, err
	}
	return b.Build()
}

// Load builds a catalogue from files and directories, later paths
// overriding earlier ones.
func Load(paths ...string) (*Catalog, error) {
	b := NewBuilder()
	for _, p := range paths {
		if err := b.AddPath(p); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// LoadBuiltin builds the embedded catalogue.
func LoadBuiltin() (*Catalog, error) {
	b := NewBuilder()
	if err := b.AddBuiltin(); err != nil {
		return nil, err
	}
	return b.Build()
}

// InvalidError reports every invariant violation found while building a catalogue.
type InvalidError struct {
	Problems []Problem
}

func (e *InvalidError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid catalogue: " + e.Problems[0].Error()
	}
	return fmt.Sprintf("invalid catalogue: %d problems (first: %s)", len(e.Problems), e.Problems[0].Error())
}

// IsInvalid reports whether err carries catalogue invariant problems.
func IsInvalid(err error) bool {
	var ie *InvalidError
	return errors.As(err, &ie)
}
