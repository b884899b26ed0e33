package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/cmdforge/internal/testutil"
)

const testCatalogYAML = `categories:
  - {id: tools, name: Tools, order: 1}
commands:
  - id: greet
    name: greet
    category: tools
    description: Print a friendly message
    base: echo
    args:
      - {id: loud, type: checkbox, flag: -n, description: Omit the trailing newline}
      - {id: message, type: text, positional: true, position: 1, required: true}
    examples:
      - name: Hello
        values: {message: hello}
        output: echo hello
  - id: wipe
    name: wipe
    category: tools
    description: Remove files and directories
    base: rm
    danger_level: caution
    args:
      - {id: recursive, type: checkbox, flag: -r, danger: true, warning: removes directories}
      - {id: force, type: checkbox, flag: -f, danger: true, warning: no confirmation}
      - {id: path, type: text, positional: true, position: 1, required: true}
`

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	return <-outputCh
}

// resetFlags restores every flag of the command tree to its default so
// that consecutive in-process runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// runCLI executes the command tree in-process and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	cfg, cat, engine = nil, nil, nil
	SetPipeFormat(nil)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		SetPipeFormat(nil)
	})

	rootCmd.SetArgs(args)
	var err error
	out := captureStdout(t, func() {
		err = Execute()
	})
	return out, err
}

// testWorkspace writes an empty config and the test catalogue and returns
// the global flags that point cmdf at them.
func testWorkspace(t *testing.T) (*testutil.TestWorkspace, []string) {
	t.Helper()
	ws := testutil.NewTestWorkspace(t).
		WithCatalog("tools.yaml", testCatalogYAML).
		Build()
	return ws, []string{"--config", ws.ConfigPath(), "--no-builtin", "--catalog", ws.CatalogPath()}
}

func runJSON(t *testing.T, base []string, args ...string) (*testutil.CLIResult, error) {
	t.Helper()
	all := append(append([]string{}, base...), "--json")
	out, err := runCLI(t, append(all, args...)...)
	return testutil.ParseCLIResult([]byte(out)), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
