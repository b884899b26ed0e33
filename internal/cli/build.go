package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cmdforge/internal/catalog"
	"github.com/aidanlsb/cmdforge/internal/resolve"
	"github.com/aidanlsb/cmdforge/internal/ui"
)

var (
	buildValuesFile string
	buildFailOn     severityFlag
	buildTokens     bool
)

var buildCmd = &cobra.Command{
	Use:  "build <command> [arg=value ...]",
	Args: cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completeFromCatalog("commands", toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	id, err := resolveCommandRef(args[0])
	if err != nil {
		return handleError(ErrInvalidInput, err, "Run 'cmdf search' or 'cmdf list' before referring to results by number")
	}
	values, err := collectValues(buildValuesFile, args[1:])
	if err != nil {
		return handleError(ErrInvalidInput, err, "Pass values as arg=value, e.g. file=archive.tgz")
	}

	res := engine.Resolve(id, values)
	logger.Debug("resolved command", "id", id, "ok", res.OK(), "severity", res.Severity, "errors", len(res.Errors))

	if !res.OK() {
		if res.Errors.Has(resolve.CodeUnknownCommand) {
			return handleErrorMsg(ErrCommandNotFound, fmt.Sprintf("unknown command %q", id), "Run 'cmdf search <words>' or 'cmdf list' to find command ids")
		}
		return reportValidationErrors(id, res)
	}

	threshold := failThreshold(&buildFailOn, cmd.Flags().Changed("fail-on"))
	blocked := reachesThreshold(res.Severity, threshold)

	if isJSONOutput() {
		resp := Response{
			OK:       !blocked,
			Data:     res,
			Warnings: resultWarnings(res.Severity, res.Warnings),
		}
		if blocked {
			resp.Error = &ErrorInfo{
				Code:    ErrRiskThreshold,
				Message: fmt.Sprintf("severity %s reaches --fail-on %s", res.Severity, threshold),
			}
		}
		outputJSON(resp)
	} else {
		if buildTokens {
			for _, tok := range res.Tokens {
				fmt.Println(tok)
			}
		} else {
			fmt.Println(res.Command)
		}
		printRisk(res.Severity, res.Warnings)
	}

	if blocked {
		message := fmt.Sprintf("severity %s reaches --fail-on %s", res.Severity, threshold)
		if !isJSONOutput() {
			fmt.Fprintln(os.Stderr, ui.Error(message))
		}
		return reportedFailure(ErrRiskThreshold, message)
	}
	return nil
}

// reportValidationErrors prints the errors of a failed resolution.
func reportValidationErrors(id string, res *resolve.Result) error {
	message := fmt.Sprintf("%s failed validation %s", id, ui.Count(len(res.Errors), "error", "errors"))
	if isJSONOutput() {
		outputError(ErrValidationFailed, message, map[string]any{
			"command": id,
			"errors":  res.Errors,
		}, "Run 'cmdf show "+id+"' to see the arguments")
		return reportedFailure(ErrValidationFailed, message)
	}

	fmt.Fprintln(os.Stderr, ui.Error(message))
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "  %s %s\n", ui.Hint(string(e.Code)), e.Message)
	}
	return reportedFailure(ErrValidationFailed, message)
}

// printRisk writes the severity and warnings to stderr so that stdout only
// carries the command.
func printRisk(severity catalog.DangerLevel, warnings []string) {
	if severity.Rank() > 0 {
		fmt.Fprintf(os.Stderr, "risk: %s\n", ui.Severity(string(severity)))
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, ui.Warning(w))
	}
}

func init() {
	buildCmd.Flags().StringVar(&buildValuesFile, "values", "", "YAML file mapping argument ids to values")
	buildCmd.Flags().Var(&buildFailOn, "fail-on", "Exit non-zero when severity reaches this level (caution, dangerous)")
	buildCmd.Flags().BoolVar(&buildTokens, "tokens", false, "Print one token per line instead of the command line")
	rootCmd.AddCommand(buildCmd)
}
