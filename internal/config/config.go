// Package config handles global cmdforge configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the global cmdforge configuration.
type Config struct {
	// Catalogs are extra catalogue files or directories layered over the
	// builtin catalogue. Relative paths are resolved against the config file.
	Catalogs []string `toml:"catalogs"`

	// Builtin controls whether the embedded catalogue is loaded. Defaults to true.
	Builtin *bool `toml:"builtin"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `toml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `toml:"log_format"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`

	Check CheckConfig `toml:"check"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// CheckConfig holds defaults for risk checks.
type CheckConfig struct {
	// FailOn is the default severity at which build and chain exit non-zero:
	// "caution", "dangerous" or empty for never.
	FailOn string `toml:"fail_on"`
}

// UseBuiltin reports whether the embedded catalogue should be loaded.
func (c *Config) UseBuiltin() bool {
	return c.Builtin == nil || *c.Builtin
}

// CatalogPaths returns the configured catalogue paths with "~" expanded and
// relative paths made relative to the directory of configPath.
func (c *Config) CatalogPaths(configPath string) []string {
	base := ""
	if configPath != "" {
		base = filepath.Dir(configPath)
	}
	paths := make([]string, 0, len(c.Catalogs))
	for _, p := range c.Catalogs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = expandHome(p)
		if !filepath.IsAbs(p) && base != "" {
			p = filepath.Join(base, p)
		}
		paths = append(paths, p)
	}
	return paths
}

// Keys lists the settable configuration keys.
var Keys = []string{"catalogs", "builtin", "log_level", "log_format", "ui.accent", "ui.code_theme", "check.fail_on"}

// Set assigns a configuration key from its string form. catalogs takes a
// comma-separated list; an empty value clears a key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "catalogs":
		c.Catalogs = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Catalogs = append(c.Catalogs, p)
			}
		}
	case "builtin":
		if value == "" {
			c.Builtin = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("builtin must be true or false, got %q", value)
		}
		c.Builtin = &b
	case "log_level":
		switch strings.ToLower(value) {
		case "", "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown log level %q", value)
		}
	case "log_format":
		switch strings.ToLower(value) {
		case "", "text", "json":
			c.LogFormat = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown log format %q", value)
		}
	case "ui.accent":
		c.UI.Accent = value
	case "ui.code_theme":
		c.UI.CodeTheme = value
	case "check.fail_on":
		switch strings.ToLower(value) {
		case "", "caution", "dangerous":
			c.Check.FailOn = strings.ToLower(value)
		default:
			return fmt.Errorf("fail_on must be caution or dangerous, got %q", value)
		}
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// LoadAllowMissing loads path, returning an empty config when the file
// does not exist. The boolean reports whether it existed.
func LoadAllowMissing(path string) (*Config, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Config{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to stat config %s: %w", path, err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return expandHome(explicitConfigPath)
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/cmdforge/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "cmdforge", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/cmdforge/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cmdforge", "config.toml"), nil
}

const defaultConfig = `# cmdforge configuration

# Extra catalogue files or directories, loaded after the builtin catalogue.
# Commands with the same id replace builtin ones.
# catalogs = ["~/.config/cmdforge/catalog"]

# Load the embedded catalogue.
# builtin = true

# Diagnostics on stderr: debug, info, warn, error. Format: text or json.
# log_level = "warn"
# log_format = "text"

# [ui]
# accent = "39"
# code_theme = "monokai"

# Exit non-zero from build and chain at this severity: caution or dangerous.
# [check]
# fail_on = "dangerous"
`

// CreateDefaultAt creates a default config file at path if it doesn't exist.
func CreateDefaultAt(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
