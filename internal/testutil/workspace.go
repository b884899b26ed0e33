// Package testutil provides reusable test utilities for cmdf integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestWorkspace is a temporary directory holding a cmdf config and catalogue files.
type TestWorkspace struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestWorkspace creates a new test workspace builder.
// Call Build() to create the actual directory.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithCatalog adds a catalogue file under catalog/.
func (w *TestWorkspace) WithCatalog(name, yaml string) *TestWorkspace {
	w.files[filepath.Join("catalog", name)] = yaml
	return w
}

// WithConfig sets the config.toml content.
func (w *TestWorkspace) WithConfig(toml string) *TestWorkspace {
	w.files["config.toml"] = toml
	return w
}

// WithFile adds a file relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// Build creates the workspace directory and all configured files.
// A config.toml is always written so that runs never read the user's config.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	w.Path = w.t.TempDir()
	if _, ok := w.files["config.toml"]; !ok {
		w.files["config.toml"] = ""
	}
	for path, content := range w.files {
		w.writeFile(path, content)
	}
	return w
}

func (w *TestWorkspace) writeFile(relPath, content string) {
	w.t.Helper()

	fullPath := filepath.Join(w.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		w.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		w.t.Fatalf("failed to write %s: %v", relPath, err)
	}
}

// ConfigPath returns the workspace config file.
func (w *TestWorkspace) ConfigPath() string {
	return filepath.Join(w.Path, "config.toml")
}

// CatalogPath returns the workspace catalogue directory.
func (w *TestWorkspace) CatalogPath() string {
	return filepath.Join(w.Path, "catalog")
}

// ReadFile reads a file relative to the workspace root.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	data, err := os.ReadFile(filepath.Join(w.Path, relPath))
	if err != nil {
		w.t.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(data)
}

// AssertFileContains fails the test unless relPath contains substr.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	if content := w.ReadFile(relPath); !strings.Contains(content, substr) {
		w.t.Errorf("expected %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// ToolsCatalog is a small catalogue exercising flags, positionals,
// constraints and danger.
func ToolsCatalog() string {
	return `categories:
  - {id: tools, name: Tools, order: 1}
commands:
  - id: greet
    name: greet
    category: tools
    base: echo
    args:
      - {id: loud, type: checkbox, flag: -n}
      - {id: message, type: text, positional: true, position: 1, required: true}
  - id: wipe
    name: wipe
    category: tools
    base: rm
    danger_level: caution
    args:
      - {id: recursive, type: checkbox, flag: -r, danger: true, warning: removes directories}
      - {id: force, type: checkbox, flag: -f, danger: true, warning: no confirmation}
      - {id: path, type: text, positional: true, position: 1, required: true}
`
}
