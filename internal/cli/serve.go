package cli

import (
	"github.com/aidanlsb/cmdforge/internal/commands"
	"github.com/aidanlsb/cmdforge/internal/mcp"
)

func runServe(args []string, flags map[string]any) error {
	server := mcp.NewServer(mcp.Config{
		BaseArgs: serveBaseArgs(),
		Version:  currentVersionInfo().Version,
		Logger:   logger,
	})
	return server.Run()
}

// serveBaseArgs repeats the global flags that pick the catalogue so every
// tool call sees the same commands as the server.
func serveBaseArgs() []string {
	var args []string
	if resolvedConfigPath != "" {
		args = append(args, "--config", resolvedConfigPath)
	}
	for _, p := range catalogFlags {
		args = append(args, "--catalog", p)
	}
	if noBuiltin {
		args = append(args, "--no-builtin")
	}
	return args
}

func init() {
	rootCmd.AddCommand(commands.GenerateCobraCommand("serve", runServe))
}
