package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestParse(t *testing.T) {
	t.Run("commands keep declaration order", func(t *testing.T) {
		cat, err := Parse([]byte(`
category: {id: text, name: Text, order: 3}
commands:
  - id: grep
    base: grep
    args:
      - {id: ignore-case, type: checkbox, flag: -i}
      - {id: pattern, type: text, positional: true, position: 1, required: true}
  - id: cut
    base: cut
    args:
      - {id: fields, type: text, flag: -f}
`), "test.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := cat.IDs(); len(got) != 2 || got[0] != "grep" || got[1] != "cut" {
			t.Errorf("IDs() = %v, want [grep cut]", got)
		}

		grep, ok := cat.Lookup("grep")
		if !ok {
			t.Fatal("expected grep to exist")
		}
		if grep.Category != "text" {
			t.Errorf("Category = %q, want inherited %q", grep.Category, "text")
		}
		if grep.DangerLevel != DangerNone {
			t.Errorf("DangerLevel = %q, want %q", grep.DangerLevel, DangerNone)
		}
		if a, ok := grep.Arg("pattern"); !ok || !a.Required {
			t.Errorf("Arg(pattern) = %+v, %v", a, ok)
		}

		cats := cat.Categories()
		if len(cats) != 1 || cats[0].Name != "Text" {
			t.Errorf("Categories() = %+v", cats)
		}
	})

	t.Run("missing id is derived from name", func(t *testing.T) {
		cat, err := Parse([]byte(`
commands:
  - name: Git Commit
    base: git commit
`), "test.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := cat.Lookup("git-commit"); !ok {
			t.Errorf("expected id git-commit, got %v", cat.IDs())
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("commands: [\n"), "bad.yaml")
		if err == nil {
			t.Fatal("expected parse error")
		}
		if IsInvalid(err) {
			t.Error("a syntax error should not be reported as an invariant problem")
		}
	})

	t.Run("duplicate ids in one document", func(t *testing.T) {
		_, err := Parse([]byte(`
commands:
  - {id: ls, base: ls}
  - {id: ls, base: ls}
`), "dup.yaml")
		var ie *InvalidError
		if !errors.As(err, &ie) {
			t.Fatalf("expected *InvalidError, got %v", err)
		}
		if len(ie.Problems) != 1 || ie.Problems[0].Message != "duplicate command id" {
			t.Errorf("Problems = %+v", ie.Problems)
		}
	})

	t.Run("invalid command is refused", func(t *testing.T) {
		_, err := Parse([]byte(`
commands:
  - id: rm
    base: rm
    args:
      - {id: force, type: checkbox, flag: -f, conflicts_with: [interactive]}
`), "rm.yaml")
		if !IsInvalid(err) {
			t.Fatalf("expected invariant error, got %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("directory files load in lexical order and later ids win", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "10-extra.yml", `
commands:
  - {id: ls, base: ls, description: overridden}
  - {id: tree, base: tree}
`)
		writeFile(t, dir, "01-base.yaml", `
commands:
  - {id: ls, base: ls, description: original}
  - {id: pwd, base: pwd}
`)
		writeFile(t, dir, "notes.txt", "not a catalogue")

		cat, err := Load(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"ls", "pwd", "tree"}
		got := cat.IDs()
		if len(got) != len(want) {
			t.Fatalf("IDs() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("IDs()[%d] = %q, want %q", i, got[i], want[i])
			}
		}

		ls, _ := cat.Lookup("ls")
		if ls.Description != "overridden" {
			t.Errorf("Description = %q, want overridden", ls.Description)
		}
	})

	t.Run("override replaces an invalid definition", func(t *testing.T) {
		dir := t.TempDir()
		first := writeFile(t, dir, "a.yaml", `
commands:
  - {id: ls, base: ""}
`)
		second := writeFile(t, dir, "b.yaml", `
commands:
  - {id: ls, base: ls}
`)
		if _, err := Load(first, second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing path")
		}
	})
}

func TestLoadBuiltin(t *testing.T) {
	cat, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("builtin catalogue failed to load: %v", err)
	}

	if cat.Len() < 100 {
		t.Errorf("Len() = %d, want at least 100 commands", cat.Len())
	}
	if len(cat.Categories()) != 14 {
		t.Errorf("Categories() has %d entries, want 14", len(cat.Categories()))
	}

	for _, id := range []string{"ls", "grep", "cut", "tar", "rm", "docker-run", "git-commit"} {
		if _, err := cat.ByID(id); err != nil {
			t.Errorf("ByID(%q): %v", id, err)
		}
	}

	if _, err := cat.ByID("nope"); !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("ByID(nope) error = %v, want ErrCommandNotFound", err)
	}

	for _, cmd := range cat.Commands() {
		if cmd.Category == "" {
			t.Errorf("%s has no category", cmd.ID)
			continue
		}
		if _, ok := cat.Category(cmd.Category); !ok {
			t.Errorf("%s references unknown category %q", cmd.ID, cmd.Category)
		}
	}
}

func TestFilter(t *testing.T) {
	cat, err := New(
		&Command{ID: "ls", Base: "ls", Category: "navigation", OS: []string{"linux", "macos"}},
		&Command{ID: "dir", Base: "dir", Category: "navigation", OS: []string{"windows"}},
		&Command{ID: "grep", Base: "grep", Category: "text"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		category string
		os       string
		want     int
	}{
		{"", "", 3},
		{"navigation", "", 2},
		{"navigation", "windows", 1},
		{"", "linux", 2},
		{"text", "windows", 1},
		{"docker", "", 0},
	}
	for _, tt := range tests {
		if got := cat.Filter(tt.category, tt.os); len(got) != tt.want {
			t.Errorf("Filter(%q, %q) returned %d commands, want %d", tt.category, tt.os, len(got), tt.want)
		}
	}
}
