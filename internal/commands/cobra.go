package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Handler is a function that executes a command.
// It receives the parsed args and flag values keyed by flag name.
type Handler func(args []string, flags map[string]any) error

// CompletionFunc supplies dynamic completions, such as catalogue command ids,
// for an argument of the given DynamicComp kind.
type CompletionFunc func(kind, toComplete string) []string

// GenerateCobraCommand creates a Cobra command from registry metadata.
// This reduces boilerplate by generating Use, Short, Long, Args, and flags
// from the registry, while keeping the handler logic separate.
func GenerateCobraCommand(name string, handler Handler) *cobra.Command {
	return GenerateCobraCommandWithCompletion(name, handler, nil)
}

// GenerateCobraCommandWithCompletion is GenerateCobraCommand with a source
// of dynamic completions.
func GenerateCobraCommandWithCompletion(name string, handler Handler, complete CompletionFunc) *cobra.Command {
	meta, ok := Registry[name]
	if !ok {
		return nil
	}

	use := UseLine(meta)

	minArgs := 0
	maxArgs := len(meta.Args)
	for _, arg := range meta.Args {
		if arg.Required {
			minArgs++
		}
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: meta.Description,
		Long:  LongDescription(meta),
	}

	switch {
	case maxArgs > 0 && meta.Args[maxArgs-1].Variadic:
		cmd.Args = cobra.MinimumNArgs(minArgs)
	case minArgs == maxArgs:
		if minArgs == 0 {
			cmd.Args = cobra.NoArgs
		} else {
			cmd.Args = cobra.ExactArgs(minArgs)
		}
	default:
		cmd.Args = cobra.RangeArgs(minArgs, maxArgs)
	}

	for _, flag := range meta.Flags {
		switch flag.Type {
		case FlagTypeBool:
			cmd.Flags().BoolP(flag.Name, flag.Short, flag.Default == "true", flag.Description)
		case FlagTypeInt:
			var defaultInt int
			fmt.Sscanf(flag.Default, "%d", &defaultInt)
			cmd.Flags().IntP(flag.Name, flag.Short, defaultInt, flag.Description)
		case FlagTypeStringSlice:
			cmd.Flags().StringArrayP(flag.Name, flag.Short, nil, flag.Description)
		case FlagTypePosKeyValue:
			// Positional arg=value pairs are not Cobra flags.
			continue
		default:
			cmd.Flags().StringP(flag.Name, flag.Short, flag.Default, flag.Description)
		}
	}

	if len(meta.Args) > 0 {
		cmd.ValidArgsFunction = generateCompletionFunc(meta.Args, complete)
	}

	if handler != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			flags := make(map[string]any)
			for _, flag := range meta.Flags {
				switch flag.Type {
				case FlagTypeBool:
					val, _ := cmd.Flags().GetBool(flag.Name)
					flags[flag.Name] = val
				case FlagTypeInt:
					val, _ := cmd.Flags().GetInt(flag.Name)
					flags[flag.Name] = val
				case FlagTypeStringSlice:
					val, _ := cmd.Flags().GetStringArray(flag.Name)
					flags[flag.Name] = val
				case FlagTypePosKeyValue:
					continue
				default:
					val, _ := cmd.Flags().GetString(flag.Name)
					flags[flag.Name] = val
				}
			}

			return handler(args, flags)
		}
	}

	return cmd
}

// UseLine builds a Cobra Use string such as "show <command>" from metadata.
func UseLine(meta Meta) string {
	parts := strings.Fields(meta.Name)
	use := meta.Name
	if len(parts) > 0 {
		use = parts[len(parts)-1]
	}
	for _, arg := range meta.Args {
		name := arg.Name
		if arg.Variadic {
			name += "..."
		}
		if arg.Required {
			use += fmt.Sprintf(" <%s>", name)
		} else {
			use += fmt.Sprintf(" [%s]", name)
		}
	}
	return use
}

// LongDescription returns the long help text with examples appended.
func LongDescription(meta Meta) string {
	longDesc := meta.Description
	if meta.LongDesc != "" {
		longDesc = meta.LongDesc
	}
	if len(meta.Examples) == 0 {
		return longDesc
	}

	var b strings.Builder
	b.WriteString(longDesc)
	b.WriteString("\n\nExamples:\n")
	for _, ex := range meta.Examples {
		b.WriteString("  ")
		b.WriteString(ex)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ApplyHelp copies registry descriptions onto every command below root, so
// hand-built cobra commands such as build and chain share the registry's
// help text. Use strings are left alone.
func ApplyHelp(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		applyHelp(cmd, cmd.Name())
	}
}

func applyHelp(cmd *cobra.Command, path string) {
	if meta, ok := Lookup(path); ok {
		if meta.Description != "" {
			cmd.Short = meta.Description
		}
		if meta.LongDesc != "" || (cmd.Long == "" && len(meta.Examples) > 0) {
			cmd.Long = LongDescription(meta)
		}
	}
	for _, child := range cmd.Commands() {
		applyHelp(child, path+" "+child.Name())
	}
}

// generateCompletionFunc creates a shell completion function based on arg metadata.
func generateCompletionFunc(args []ArgMeta, complete CompletionFunc) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, completedArgs []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		argIndex := len(completedArgs)
		if argIndex >= len(args) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		arg := args[argIndex]

		if len(arg.Completions) > 0 {
			return filterPrefix(arg.Completions, toComplete), cobra.ShellCompDirectiveNoFileComp
		}

		switch arg.DynamicComp {
		case "commands", "categories":
			if complete == nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return filterPrefix(complete(arg.DynamicComp, toComplete), toComplete), cobra.ShellCompDirectiveNoFileComp
		case "files":
			return nil, cobra.ShellCompDirectiveDefault
		}

		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func filterPrefix(candidates []string, prefix string) []string {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

// GetCommandMeta returns the metadata for a command.
func GetCommandMeta(name string) (Meta, bool) {
	meta, ok := Registry[name]
	return meta, ok
}
