package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// The cmdf binary is built once per test process.
var (
	buildOnce sync.Once
	binary    string
	buildErr  error
)

// CLIResult is a decoded cmdf JSON envelope plus the process exit code.
type CLIResult struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    *CLIError              `json:"error,omitempty"`
	Warnings []CLIWarning           `json:"warnings,omitempty"`
	Meta     *CLIMeta               `json:"meta,omitempty"`

	RawJSON  string `json:"-"`
	ExitCode int    `json:"-"`
}

// CLIError is the error part of an envelope.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// CLIWarning is one envelope warning.
type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// CLIMeta is the envelope metadata.
type CLIMeta struct {
	Count int `json:"count,omitempty"`
}

func buildBinary() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "cmdf-test-bin-*")
	if err != nil {
		return "", err
	}
	name := "cmdf"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(dir, name)

	cmd := exec.Command("go", "build", "-o", out, "./cmd/cmdf")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\n%s", err, output)
	}
	return out, nil
}

// moduleRoot walks up from the working directory to the go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}

// RunCLI runs the cmdf binary with --json against the workspace config,
// in the workspace directory.
func (w *TestWorkspace) RunCLI(args ...string) *CLIResult {
	w.t.Helper()

	buildOnce.Do(func() { binary, buildErr = buildBinary() })
	if buildErr != nil {
		w.t.Fatalf("failed to build cmdf: %v", buildErr)
	}

	cmd := exec.Command(binary, append([]string{"--config", w.ConfigPath(), "--json"}, args...)...)
	cmd.Dir = w.Path
	output, err := cmd.Output()

	result := ParseCLIResult(output)
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}
	return result
}

// ParseCLIResult decodes an envelope. Output that is not JSON becomes a
// failed result with code PARSE_ERROR.
func ParseCLIResult(output []byte) *CLIResult {
	result := &CLIResult{}
	if err := json.Unmarshal(output, result); err != nil {
		result = &CLIResult{Error: &CLIError{
			Code:    "PARSE_ERROR",
			Message: "failed to parse JSON output: " + err.Error(),
		}}
	}
	result.RawJSON = string(output)
	return result
}

// MustSucceed fails the test unless the envelope has ok=true.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		msg := "no error in envelope"
		if r.Error != nil {
			msg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected success, got %s\nraw: %s", msg, r.RawJSON)
	}
	return r
}

// MustFail fails the test unless the envelope failed with code.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	switch {
	case r.OK:
		t.Fatalf("expected failure %s, got success\nraw: %s", code, r.RawJSON)
	case r.Error == nil:
		t.Fatalf("expected failure %s, got no error\nraw: %s", code, r.RawJSON)
	case r.Error.Code != code:
		t.Fatalf("expected error %s, got %s: %s\nraw: %s", code, r.Error.Code, r.Error.Message, r.RawJSON)
	}
	return r
}

// DataList returns data[key] as a list, or nil.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns data[key] as a string, or "".
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// AssertResultCount checks the length of the list at data[key].
func (r *CLIResult) AssertResultCount(t *testing.T, key string, want int) {
	t.Helper()
	if got := len(r.DataList(key)); got != want {
		t.Errorf("expected %d items in %q, got %d\nraw: %s", want, key, got, r.RawJSON)
	}
}

// AssertHasWarning checks that a warning with code is present.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning %s, got %v\nraw: %s", code, r.Warnings, r.RawJSON)
}
