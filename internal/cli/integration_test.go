//go:build integration

package cli_test

import (
	"testing"

	"github.com/aidanlsb/cmdforge/internal/testutil"
)

func toolsWorkspace(t *testing.T) *testutil.TestWorkspace {
	t.Helper()
	return testutil.NewTestWorkspace(t).
		WithConfig("builtin = false\ncatalogs = [\"catalog\"]\n").
		WithCatalog("tools.yaml", testutil.ToolsCatalog()).
		Build()
}

func TestIntegration_BuildExitCodes(t *testing.T) {
	ws := toolsWorkspace(t)

	ok := ws.RunCLI("build", "greet", "message=hi").MustSucceed(t)
	if got := ok.DataString("command"); got != "echo hi" {
		t.Errorf("command = %q", got)
	}

	invalid := ws.RunCLI("build", "greet")
	invalid.MustFail(t, "VALIDATION_FAILED")
	if invalid.ExitCode != 2 {
		t.Errorf("validation exit code = %d, want 2", invalid.ExitCode)
	}

	risky := ws.RunCLI("build", "wipe", "recursive", "force", "path=/", "--fail-on", "dangerous")
	if risky.ExitCode != 3 {
		t.Errorf("risk exit code = %d, want 3", risky.ExitCode)
	}
	if risky.Error == nil || risky.Error.Code != "RISK_THRESHOLD" {
		t.Errorf("error = %+v", risky.Error)
	}
}

func TestIntegration_ChainAndSave(t *testing.T) {
	ws := toolsWorkspace(t)

	res := ws.RunCLI("chain", "--save", "saved.yaml", "greet", "message=a", "|", "wipe", "path=b").MustSucceed(t)
	if got := res.DataString("command"); got != "echo a | rm b" {
		t.Errorf("command = %q", got)
	}
	ws.AssertFileContains("saved.yaml", "command: wipe")

	ws.RunCLI("chain", "--save", "saved.yaml", "greet", "message=a").MustFail(t, "FILE_EXISTS")
}

func TestIntegration_ConfigRoundTrip(t *testing.T) {
	ws := toolsWorkspace(t)

	ws.RunCLI("config", "set", "check.fail_on", "caution").MustSucceed(t)
	ws.AssertFileContains("config.toml", `fail_on = "caution"`)

	blocked := ws.RunCLI("build", "wipe", "path=/tmp")
	if blocked.ExitCode != 3 {
		t.Errorf("config fail_on exit code = %d, want 3", blocked.ExitCode)
	}
}

func TestIntegration_SearchAndList(t *testing.T) {
	ws := toolsWorkspace(t)

	ws.RunCLI("list").MustSucceed(t).AssertResultCount(t, "commands", 2)
	search := ws.RunCLI("search", "directories").MustSucceed(t)
	search.AssertResultCount(t, "results", 1)
}
