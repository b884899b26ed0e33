// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cmdforge/internal/catalog"
	"github.com/aidanlsb/cmdforge/internal/commands"
	"github.com/aidanlsb/cmdforge/internal/config"
	"github.com/aidanlsb/cmdforge/internal/logging"
	"github.com/aidanlsb/cmdforge/internal/resolve"
	"github.com/aidanlsb/cmdforge/internal/ui"
)

var (
	// Global flags
	configPath   string
	catalogFlags []string
	noBuiltin    bool
	verbose      bool
	pipeFlag     bool
	noPipeFlag   bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             = logging.Discard()
	cat                *catalog.Catalog
	engine             *resolve.Engine
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cmdf",
	Short: "cmdforge - build safe shell commands from a catalogue",
	Long: `cmdforge turns a catalogue of command-line tools into validated, correctly
quoted shell commands, and joins them into pipelines.

Arguments are checked against the catalogue before anything is printed:
required arguments, conflicts, dependencies, numeric ranges, select options
and positional order. Every command carries a risk severity and the warnings
of the arguments in use. cmdf never runs the commands it builds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "Run 'cmdf config path' to see which file was read")
		}

		logger, err = newLogger(cfg)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		switch {
		case pipeFlag && noPipeFlag:
			return handleErrorMsg(ErrInvalidInput, "--pipe and --no-pipe cannot be used together", "")
		case pipeFlag:
			v := true
			SetPipeFormat(&v)
		case noPipeFlag:
			v := false
			SetPipeFormat(&v)
		default:
			SetPipeFormat(nil)
		}

		if !commands.NeedsCatalog(commandPath(cmd)) {
			return nil
		}
		if err := loadCatalog(); err != nil {
			if catalog.IsInvalid(err) {
				return handleError(ErrCatalogInvalid, err, "Run 'cmdf check' for the full list of problems")
			}
			return handleError(ErrCatalogNotFound, err, "")
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	commands.ApplyHelp(rootCmd)
	err := rootCmd.Execute()
	if err != nil && !isReported(err) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringArrayVar(&catalogFlags, "catalog", nil, "Extra catalogue file or directory (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&noBuiltin, "no-builtin", false, "Do not load the builtin catalogue")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripts)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&pipeFlag, "pipe", false, "Force pipe-friendly output")
	rootCmd.PersistentFlags().BoolVar(&noPipeFlag, "no-pipe", false, "Force styled terminal output")
}

// commandPath returns the command path without the root name, e.g. "config set".
func commandPath(cmd *cobra.Command) string {
	path := cmd.CommandPath()
	if _, rest, ok := strings.Cut(path, " "); ok {
		return rest
	}
	return ""
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)
	loadedCfg, _, err := config.LoadAllowMissing(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	return loadedCfg, resolvedPath, nil
}

func newLogger(c *config.Config) (*slog.Logger, error) {
	logCfg := logging.DefaultConfig()
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logCfg.Level = level
	if verbose {
		logCfg.Level = slog.LevelDebug
	}
	if c.LogFormat != "" {
		logCfg.Format = c.LogFormat
	}
	return logging.New(logCfg), nil
}

// catalogSources returns the catalogue paths to layer over the builtin one:
// config entries first, then --catalog flags.
func catalogSources() []string {
	paths := cfg.CatalogPaths(resolvedConfigPath)
	return append(paths, catalogFlags...)
}

func useBuiltin() bool {
	return !noBuiltin && cfg.UseBuiltin()
}

// buildCatalog loads the builtin catalogue (unless disabled) and the given paths.
func buildCatalog(paths []string, builtin bool) (*catalog.Catalog, error) {
	b := catalog.NewBuilder()
	if builtin {
		if err := b.AddBuiltin(); err != nil {
			return nil, err
		}
		logger.Debug("loaded builtin catalogue")
	}
	for _, p := range paths {
		if err := b.AddPath(p); err != nil {
			return nil, err
		}
		logger.Debug("loaded catalogue", "path", p)
	}
	return b.Build()
}

func loadCatalog() error {
	loaded, err := buildCatalog(catalogSources(), useBuiltin())
	if err != nil {
		return err
	}
	logger.Debug("catalogue ready", "commands", loaded.Len(), "categories", len(loaded.Categories()))
	cat = loaded
	engine = resolve.NewEngine(cat)
	return nil
}

// completeFromCatalog supplies dynamic shell completions. It loads the
// catalogue itself because completion runs without PersistentPreRunE.
func completeFromCatalog(kind, toComplete string) []string {
	if cfg == nil {
		loaded, path, err := loadGlobalConfigWithPath()
		if err != nil {
			return nil
		}
		cfg, resolvedConfigPath = loaded, path
	}
	if cat == nil {
		if err := loadCatalog(); err != nil {
			return nil
		}
	}

	switch kind {
	case "commands":
		return cat.IDs()
	case "categories":
		var ids []string
		for _, c := range cat.Categories() {
			ids = append(ids, c.ID)
		}
		return ids
	}
	return nil
}
