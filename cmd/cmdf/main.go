// Package main is the entry point for the cmdf CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/cmdforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
