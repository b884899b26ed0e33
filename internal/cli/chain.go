package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/cmdforge/internal/atomicfile"
	"github.com/aidanlsb/cmdforge/internal/resolve"
	"github.com/aidanlsb/cmdforge/internal/ui"
)

var (
	chainFile   string
	chainSave   string
	chainForce  bool
	chainFailOn severityFlag
)

var chainCmd = &cobra.Command{
	Use: "chain <command> [arg=value ...] [<op> <command> [arg=value ...]]...",
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 || resolve.Operator(args[len(args)-1]).Valid() {
			return completeFromCatalog("commands", toComplete), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runChain,
}

// parseChainArgs splits command-line tokens into chain items. Operator
// tokens start a new item; the first token of each item is its command id
// and the rest are arg=value pairs.
func parseChainArgs(args []string) ([]resolve.ChainItem, error) {
	var items []resolve.ChainItem
	var pairs [][]string
	expectCommand := true
	var pending resolve.Operator

	for _, tok := range args {
		if op := resolve.Operator(tok); op.Valid() {
			if expectCommand {
				return nil, fmt.Errorf("operator %q must follow a command", tok)
			}
			pending = op
			expectCommand = true
			continue
		}
		if expectCommand {
			items = append(items, resolve.ChainItem{Command: tok, Operator: pending})
			pairs = append(pairs, nil)
			pending = ""
			expectCommand = false
			continue
		}
		pairs[len(pairs)-1] = append(pairs[len(pairs)-1], tok)
	}
	if pending != "" {
		return nil, fmt.Errorf("operator %q is not followed by a command", pending)
	}

	for i := range items {
		values, err := resolve.ParseValues(pairs[i])
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, items[i].Command, err)
		}
		items[i].Values = values
	}
	return items, nil
}

// loadChainFile reads a YAML list of chain items.
func loadChainFile(path string) ([]resolve.ChainItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain file: %w", err)
	}
	var items []resolve.ChainItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse chain file %s: %w", path, err)
	}
	return items, nil
}

// saveChainFile writes chain items as YAML, replacing path atomically.
func saveChainFile(path string, items []resolve.ChainItem) error {
	return atomicfile.Write(path, 0644, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	})
}

func runChain(cmd *cobra.Command, args []string) error {
	var items []resolve.ChainItem
	var err error
	switch {
	case chainFile != "" && len(args) > 0:
		return handleErrorMsg(ErrInvalidInput, "use either --file or command-line items, not both", "")
	case chainFile != "":
		items, err = loadChainFile(chainFile)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
	default:
		items, err = parseChainArgs(args)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Quote operators so the shell passes them through, e.g. '|' or '&&'")
		}
	}

	for i := range items {
		id, err := resolveCommandRef(items[i].Command)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Run 'cmdf search' or 'cmdf list' before referring to results by number")
		}
		items[i].Command = id
	}

	res, err := engine.ResolveChain(items)
	if errors.Is(err, resolve.ErrEmptyChain) {
		return handleError(ErrMissingArgument, err, "Give at least one command, e.g. cmdf chain ls all '|' wc lines")
	}
	if err != nil {
		return reportChainErrors(items, res)
	}
	logger.Debug("resolved chain", "items", len(items), "severity", res.Severity)

	threshold := failThreshold(&chainFailOn, cmd.Flags().Changed("fail-on"))
	blocked := reachesThreshold(res.Severity, threshold)
	message := fmt.Sprintf("severity %s reaches --fail-on %s", res.Severity, threshold)

	if chainSave != "" && !blocked {
		if err := confirmOverwrite(chainSave); err != nil {
			return err
		}
		if err := saveChainFile(chainSave, items); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		logger.Info("saved chain", "path", chainSave)
	}

	if isJSONOutput() {
		resp := Response{
			OK:       !blocked,
			Data:     res,
			Warnings: resultWarnings(res.Severity, res.Warnings),
		}
		if blocked {
			resp.Error = &ErrorInfo{Code: ErrRiskThreshold, Message: message}
		}
		outputJSON(resp)
	} else {
		fmt.Println(res.Command)
		printRisk(res.Severity, res.Warnings)
		if chainSave != "" && !blocked {
			fmt.Fprintln(os.Stderr, ui.Successf("Saved chain to %s", chainSave))
		}
	}

	if blocked {
		if !isJSONOutput() {
			fmt.Fprintln(os.Stderr, ui.Error(message))
		}
		return reportedFailure(ErrRiskThreshold, message)
	}
	return nil
}

// confirmOverwrite refuses to replace an existing file unless --force is
// set or the user confirms interactively.
func confirmOverwrite(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if chainForce || promptForConfirm(fmt.Sprintf("%s exists. Overwrite?", path)) {
		return nil
	}
	return handleErrorMsg(ErrFileExists, fmt.Sprintf("%s already exists", path), "Use --force to overwrite it")
}

func reportChainErrors(items []resolve.ChainItem, res *resolve.ChainResult) error {
	failed := make([]int, 0, len(res.Errors))
	for i := range res.Errors {
		failed = append(failed, i)
	}
	slices.Sort(failed)
	message := fmt.Sprintf("chain failed: %s", ui.Count(len(failed), "item has errors", "items have errors"))

	if isJSONOutput() {
		outputError(ErrChainFailed, message, map[string]any{
			"errors": res.Errors,
			"failed": failed,
		}, "")
		return reportedFailure(ErrChainFailed, message)
	}

	fmt.Fprintln(os.Stderr, ui.Error(message))
	for _, i := range failed {
		fmt.Fprintf(os.Stderr, "  item %d %s\n", i, ui.ID(items[i].Command))
		for _, e := range res.Errors[i] {
			fmt.Fprintf(os.Stderr, "    %s %s\n", ui.Hint(string(e.Code)), e.Message)
		}
	}
	return reportedFailure(ErrChainFailed, message)
}

func init() {
	chainCmd.Flags().StringVar(&chainFile, "file", "", "YAML file with the chain items")
	chainCmd.Flags().StringVar(&chainSave, "save", "", "Write the resolved items to a YAML chain file")
	chainCmd.Flags().BoolVar(&chainForce, "force", false, "Overwrite the --save file without asking")
	chainCmd.Flags().Var(&chainFailOn, "fail-on", "Exit non-zero when severity reaches this level (caution, dangerous)")
	rootCmd.AddCommand(chainCmd)
}
