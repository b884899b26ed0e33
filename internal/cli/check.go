package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/catalog"
	"github.com/aidanlsb/cmdforge/internal/commands"
	"github.com/aidanlsb/cmdforge/internal/resolve"
	"github.com/aidanlsb/cmdforge/internal/ui"
	"github.com/aidanlsb/cmdforge/internal/watcher"
)

type checkSummary struct {
	Commands   int                       `json:"commands"`
	Categories int                       `json:"categories"`
	Examples   int                       `json:"examples_checked"`
	Mismatches []resolve.ExampleMismatch `json:"mismatches,omitempty"`
}

func runCheck(args []string, flags map[string]any) error {
	file, _ := flags["file"].(string)
	withExamples, _ := flags["examples"].(bool)
	if watch, _ := flags["watch"].(bool); watch {
		return watchCheck(file, withExamples)
	}
	return checkOnce(file, withExamples)
}

// watchCheck runs the check, then again after every catalogue change until
// interrupted.
func watchCheck(file string, withExamples bool) error {
	if isJSONOutput() {
		return handleErrorMsg(ErrInvalidInput, "--watch cannot be combined with --json", "")
	}
	paths := catalogSources()
	if file != "" {
		paths = []string{file}
	}
	if len(paths) == 0 {
		return handleErrorMsg(ErrMissingArgument, "no catalogue files to watch", "Pass --file or add catalogues to the config")
	}

	w, err := watcher.New(watcher.Config{
		Paths:  paths,
		Logger: logger,
		OnChange: func(changed []string) {
			fmt.Println()
			fmt.Println(ui.Hint("changed: " + strings.Join(changed, ", ")))
			_ = checkOnce(file, withExamples)
		},
	})
	if err != nil {
		return handleError(ErrFileNotFound, err, "")
	}

	_ = checkOnce(file, withExamples)
	fmt.Println(ui.Hint("Watching for catalogue changes. Press Ctrl-C to stop."))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return handleError(ErrInternal, err, "")
	}
	return nil
}

func checkOnce(file string, withExamples bool) error {
	var loaded *catalog.Catalog
	var err error
	if file != "" {
		loaded, err = buildCatalog([]string{file}, false)
	} else {
		loaded, err = buildCatalog(catalogSources(), useBuiltin())
	}

	var invalid *catalog.InvalidError
	if errors.As(err, &invalid) {
		return reportProblems(invalid.Problems)
	}
	if err != nil {
		return handleError(ErrCatalogNotFound, err, "")
	}

	summary := checkSummary{
		Commands:   loaded.Len(),
		Categories: len(loaded.Categories()),
	}
	if withExamples {
		for _, cmd := range loaded.Commands() {
			summary.Examples += len(cmd.Examples)
			summary.Mismatches = append(summary.Mismatches, resolve.CheckExamples(cmd)...)
		}
	}

	if len(summary.Mismatches) > 0 {
		message := fmt.Sprintf("%d of %d examples do not match", len(summary.Mismatches), summary.Examples)
		if isJSONOutput() {
			outputError(ErrExampleMismatch, message, summary, "")
			return reportedFailure(ErrExampleMismatch, message)
		}
		fmt.Println(ui.Error(message))
		for _, m := range summary.Mismatches {
			fmt.Printf("  %s %s\n", ui.ID(m.Command), m.Example)
			fmt.Printf("    want: %s\n", m.Want)
			if len(m.Errors) > 0 {
				fmt.Printf("    errors: %s\n", m.Errors.Error())
			} else {
				fmt.Printf("    got:  %s\n", m.Got)
			}
		}
		return reportedFailure(ErrExampleMismatch, message)
	}

	if isJSONOutput() {
		outputSuccess(summary, &Meta{Count: summary.Commands})
		return nil
	}

	fmt.Println(ui.Successf("%s in %s are valid",
		ui.Count(summary.Commands, "command", "commands"),
		ui.Count(summary.Categories, "category", "categories")))
	if withExamples {
		fmt.Println(ui.Successf("%d examples match", summary.Examples))
	}
	return nil
}

func reportProblems(problems []catalog.Problem) error {
	message := fmt.Sprintf("catalogue has %s", ui.Count(len(problems), "problem", "problems"))
	if isJSONOutput() {
		outputError(ErrCatalogInvalid, message, map[string]any{"problems": problems}, "")
		return reportedFailure(ErrCatalogInvalid, message)
	}

	fmt.Println(ui.Error(message))
	for _, p := range problems {
		fmt.Printf("  %s\n", p.Error())
	}
	return reportedFailure(ErrCatalogInvalid, message)
}

func init() {
	rootCmd.AddCommand(commands.GenerateCobraCommand("check", runCheck))
}
