package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cmdforge/internal/commands"
	"github.com/aidanlsb/cmdforge/internal/config"
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	configExists bool
}

func loadGlobalConfigContextAllowMissing() (*globalConfigContext, error) {
	resolvedPath := config.ResolveConfigPath(configPath)
	loadedCfg, exists, err := config.LoadAllowMissing(resolvedPath)
	if err != nil {
		return nil, err
	}
	return &globalConfigContext{
		cfg:          loadedCfg,
		configPath:   resolvedPath,
		configExists: exists,
	}, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	catalogs := ctx.cfg.Catalogs
	if catalogs == nil {
		catalogs = []string{}
	}
	return map[string]interface{}{
		"config_path":   ctx.configPath,
		"exists":        ctx.configExists,
		"catalogs":      catalogs,
		"catalog_paths": ctx.cfg.CatalogPaths(ctx.configPath),
		"builtin":       ctx.cfg.UseBuiltin(),
		"log_level":     strings.TrimSpace(ctx.cfg.LogLevel),
		"log_format":    strings.TrimSpace(ctx.cfg.LogFormat),
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(ctx.cfg.UI.Accent),
			"code_theme": strings.TrimSpace(ctx.cfg.UI.CodeTheme),
		},
		"check": map[string]interface{}{
			"fail_on": strings.TrimSpace(ctx.cfg.Check.FailOn),
		},
	}
}

func runConfigShow(args []string, flags map[string]any) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Printf("Config file does not exist: %s\n", ctx.configPath)
		fmt.Println("Run 'cmdf config init' to create it.")
		return nil
	}

	fmt.Printf("config: %s\n", ctx.configPath)
	fmt.Printf("builtin: %t\n", ctx.cfg.UseBuiltin())
	if paths := ctx.cfg.CatalogPaths(ctx.configPath); len(paths) > 0 {
		fmt.Println("catalogs:")
		for _, p := range paths {
			fmt.Printf("  %s\n", p)
		}
	}
	if v := strings.TrimSpace(ctx.cfg.LogLevel); v != "" {
		fmt.Printf("log_level: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.LogFormat); v != "" {
		fmt.Printf("log_format: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.Accent); v != "" {
		fmt.Printf("ui.accent: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.CodeTheme); v != "" {
		fmt.Printf("ui.code_theme: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.Check.FailOn); v != "" {
		fmt.Printf("check.fail_on: %s\n", v)
	}
	return nil
}

func runConfigPath(args []string, flags map[string]any) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path": ctx.configPath,
			"exists":      ctx.configExists,
		}, nil)
		return nil
	}
	fmt.Println(ctx.configPath)
	return nil
}

func runConfigInit(args []string, flags map[string]any) error {
	targetPath := config.ResolveConfigPath(configPath)
	_, statErr := os.Stat(targetPath)
	existed := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return handleError(ErrFileReadError, statErr, "")
	}

	createdPath, err := config.CreateDefaultAt(targetPath)
	if err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path": createdPath,
			"created":     !existed,
		}, nil)
		return nil
	}

	if existed {
		fmt.Printf("Config already exists: %s\n", createdPath)
	} else {
		fmt.Printf("Created config: %s\n", createdPath)
	}
	return nil
}

func runConfigSet(args []string, flags map[string]any) error {
	key, value := args[0], args[1]

	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	if err := ctx.cfg.Set(key, value); err != nil {
		return handleError(ErrInvalidInput, err, "Keys: "+strings.Join(config.Keys, ", "))
	}
	if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	ctx.configExists = true

	if isJSONOutput() {
		data := configData(ctx)
		data["changed"] = []string{key}
		outputSuccess(data, nil)
		return nil
	}

	fmt.Printf("Updated config: %s\n", ctx.configPath)
	fmt.Printf("changed: %s\n", key)
	return nil
}

func init() {
	configCmd := &cobra.Command{
		Use:  "config",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(args, nil)
		},
	}
	configCmd.AddCommand(commands.GenerateCobraCommand("config_path", runConfigPath))
	configCmd.AddCommand(commands.GenerateCobraCommand("config_init", runConfigInit))
	configCmd.AddCommand(commands.GenerateCobraCommand("config_show", runConfigShow))
	configCmd.AddCommand(commands.GenerateCobraCommand("config_set", runConfigSet))
	rootCmd.AddCommand(configCmd)
}
