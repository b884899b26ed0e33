package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/cmdforge/internal/atomicfile"
)

type persistedConfig struct {
	Catalogs  []string             `toml:"catalogs,omitempty"`
	Builtin   *bool                `toml:"builtin,omitempty"`
	LogLevel  *string              `toml:"log_level,omitempty"`
	LogFormat *string              `toml:"log_format,omitempty"`
	UI        *persistedUISettings `toml:"ui,omitempty"`
	Check     *persistedCheck      `toml:"check,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

type persistedCheck struct {
	FailOn *string `toml:"fail_on,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config to path atomically. Unset keys are omitted.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		Catalogs:  cfg.Catalogs,
		Builtin:   cfg.Builtin,
		LogLevel:  nonEmptyPtr(cfg.LogLevel),
		LogFormat: nonEmptyPtr(cfg.LogFormat),
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}
	if failOn := nonEmptyPtr(cfg.Check.FailOn); failOn != nil {
		out.Check = &persistedCheck{FailOn: failOn}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	err := atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(out)
	})
	if err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
