package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/cmdforge/internal/commands"
)

func TestCommandFlagsMatchRegistry(t *testing.T) {
	for _, name := range []string{"build", "chain", "check", "list", "search", "show"} {
		t.Run(name, func(t *testing.T) {
			meta, ok := commands.Registry[name]
			if !ok {
				t.Fatalf("%s command missing from registry", name)
			}

			cmd, ok := findCommandByPath(rootCmd, name)
			if !ok {
				t.Fatalf("%s command missing from CLI tree", name)
			}

			cliFlags := make(map[string]struct{})
			cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
				if flag.Name == "help" || flag.Name == "help-json" {
					return
				}
				cliFlags[flag.Name] = struct{}{}
			})

			// Positional arg=value pairs are documented as flags but parsed as args.
			registryFlags := make(map[string]struct{}, len(meta.Flags))
			for _, flag := range meta.Flags {
				if flag.Type == commands.FlagTypePosKeyValue {
					continue
				}
				registryFlags[flag.Name] = struct{}{}
			}

			for flag := range cliFlags {
				if _, ok := registryFlags[flag]; !ok {
					t.Errorf("CLI %s flag %q is missing from registry metadata", name, flag)
				}
			}
			for flag := range registryFlags {
				if _, ok := cliFlags[flag]; !ok {
					t.Errorf("registry %s flag %q is missing from CLI command", name, flag)
				}
			}
		})
	}
}

func TestCommandsHaveRegistryMetadata(t *testing.T) {
	for _, path := range commandPaths(rootCmd) {
		if path == "" || path == "help" || strings.HasPrefix(path, "completion") {
			continue
		}

		cmd, ok := findCommandByPath(rootCmd, path)
		if !ok {
			t.Errorf("failed to locate command for path %q", path)
			continue
		}
		if !cmd.Runnable() {
			continue
		}
		if _, ok := commands.Lookup(path); !ok {
			t.Errorf("CLI command %q is missing registry metadata", path)
		}
	}
}

func TestRegistryCommandsExistInCLI(t *testing.T) {
	for name := range commands.Registry {
		path := strings.ReplaceAll(name, "_", " ")
		if _, ok := findCommandByPath(rootCmd, path); !ok {
			t.Errorf("registry command %q has no CLI command at %q", name, path)
		}
	}
}

func commandPaths(root *cobra.Command) []string {
	var out []string
	var walk func(cmd *cobra.Command, prefix string)

	walk = func(cmd *cobra.Command, prefix string) {
		for _, child := range cmd.Commands() {
			path := child.Name()
			if prefix != "" {
				path = strings.TrimSpace(prefix + " " + child.Name())
			}
			out = append(out, path)
			walk(child, path)
		}
	}

	walk(root, "")
	return out
}

func findCommandByPath(root *cobra.Command, path string) (*cobra.Command, bool) {
	parts := strings.Fields(path)
	cur := root
	for _, part := range parts {
		var next *cobra.Command
		for _, child := range cur.Commands() {
			if child.Name() == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
