package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// resultRow is one line of a numbered listing. Num is what show, build and
// chain accept in place of the id.
type resultRow struct {
	Num   int
	ID    string
	Text  string
	Group string
}

// pipeFormatOverride holds --pipe/--no-pipe; nil means detect from stdout.
var pipeFormatOverride *bool

// SetPipeFormat sets or clears the --pipe/--no-pipe override.
func SetPipeFormat(usePipe *bool) {
	pipeFormatOverride = usePipe
}

// stdout is resolved at call time so tests can swap os.Stdout.
func stdout() io.Writer {
	return os.Stdout
}

// ShouldUsePipeFormat reports whether output should be tab-separated lines
// instead of styled tables. JSON output never is; otherwise --pipe/--no-pipe
// decide, then whether stdout is a terminal.
func ShouldUsePipeFormat() bool {
	if isJSONOutput() {
		return false
	}
	if pipeFormatOverride != nil {
		return *pipeFormatOverride
	}
	return !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// writeRows prints rows as "num<TAB>id<TAB>text<TAB>group" lines for cut and
// fzf, or only the ids when idsOnly is set.
func writeRows(w io.Writer, rows []resultRow, idsOnly bool) {
	clean := strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")
	for _, r := range rows {
		if idsOnly {
			fmt.Fprintln(w, r.ID)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Num, r.ID, clean.Replace(r.Text), clean.Replace(r.Group))
	}
}

// truncate shortens s to at most max runes, preferring a word boundary in
// the second half, and marks the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	head := string(runes[:max-3])
	if i := strings.LastIndex(head, " "); i > len(head)/2 {
		head = head[:i]
	}
	return head + "..."
}
