package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/cmdforge/internal/ui"
)

// Swapped in tests.
var (
	promptIn    io.Reader = os.Stdin
	promptOut   io.Writer = os.Stderr
	interactive           = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
	}
)

// promptForConfirm asks a yes/no question on stderr. It answers no without
// asking under --json or when stdin and stdout are not both terminals.
func promptForConfirm(question string) bool {
	if isJSONOutput() || !interactive() {
		return false
	}
	if question == "" {
		question = "Continue?"
	}
	fmt.Fprintf(promptOut, "%s %s ", question, ui.Hint("[y/N]"))
	answer, err := bufio.NewReader(promptIn).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
