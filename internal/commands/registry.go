// Package commands provides a central registry of cmdf CLI commands.
// This registry is the single source of truth for command metadata:
// help text, positional arguments and flags.
package commands

// Meta defines metadata for a CLI command that can be used to
// generate Cobra commands and their help text.
type Meta struct {
	Name        string     // Command name (e.g., "build", "config set")
	Description string     // Short description
	LongDesc    string     // Long description (for --help)
	Args        []ArgMeta  // Positional arguments
	Flags       []FlagMeta // Command flags
	Examples    []string   // Usage examples

	// NeedsCatalog is set for commands that read the command catalogue.
	NeedsCatalog bool

	// Tool exposes the command to MCP clients through `cmdf serve`.
	Tool bool
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string   // Argument name
	Description string   // Description
	Required    bool     // Is this argument required?
	Completions []string // Static completions (if any)
	DynamicComp string   // Dynamic completion type: "commands", "categories", "files"
	Variadic    bool     // Takes every remaining token
}

// FlagMeta defines a command flag.
type FlagMeta struct {
	Name        string   // Flag name (e.g., "values", "category")
	Short       string   // Short flag (e.g., "n" for -n)
	Description string   // Description
	Type        FlagType // Type of flag
	Default     string   // Default value
	Examples    []string // Example values
}

// FlagType represents the type of a flag.
type FlagType string

const (
	FlagTypeString      FlagType = "string"
	FlagTypeBool        FlagType = "bool"
	FlagTypeInt         FlagType = "int"
	FlagTypeSeverity    FlagType = "severity"      // caution or dangerous
	FlagTypePosKeyValue FlagType = "pos-key=value" // Positional arg=value pairs (e.g., `build tar file=a.tgz`)
	FlagTypeStringSlice FlagType = "stringSlice"   // For repeatable string flags
)

// Registry holds all registered commands.
var Registry = map[string]Meta{
	"build": {
		Name:        "build",
		Description: "Build a command line from a catalogue command and argument values",
		LongDesc: `Resolves one catalogue command into a shell command line.

Values are given as arg=value pairs. A bare arg (without "=") switches a
checkbox on. Values from --values are applied first and pairs on the command
line override them.

The command is validated before anything is printed: unknown arguments,
missing required arguments, conflicting or unmet dependencies, out of range
numbers, unknown select options and gaps between positional arguments are all
reported together. The command is never executed.

The risk severity (none, caution, dangerous) and the warnings of every
argument in use are printed with the command. Use --fail-on to exit non-zero
when the severity reaches a threshold.`,
		Args: []ArgMeta{
			{Name: "command", Description: "Catalogue command id (e.g., tar, docker-run) or a result number", Required: true, DynamicComp: "commands"},
		},
		Flags: []FlagMeta{
			{Name: "arg=value", Description: "Argument value (repeatable, positional)", Type: FlagTypePosKeyValue, Examples: []string{"file=archive.tgz", "create"}},
			{Name: "values", Description: "YAML file mapping argument ids to values", Type: FlagTypeString, Examples: []string{"values.yaml"}},
			{Name: "fail-on", Description: "Exit non-zero when severity reaches this level (caution, dangerous)", Type: FlagTypeSeverity},
			{Name: "tokens", Description: "Print one token per line instead of the command line", Type: FlagTypeBool},
		},
		Examples: []string{
			"cmdf build ls long all human",
			"cmdf build grep ignore-case pattern=TODO file=src/",
			"cmdf build tar create gzip file=backup.tgz source=docs/ --json",
			"cmdf build rm recursive force path=build/ --fail-on dangerous",
		},
		NeedsCatalog: true,
		Tool:         true,
	},
	"chain": {
		Name:        "chain",
		Description: "Join several catalogue commands with shell operators",
		LongDesc: `Resolves a sequence of commands and joins them with |, &&, || or ;.

Commands are separated on the command line by an operator token; quote the
operators so that your shell passes them through. Alternatively, --file reads
a YAML list of {command, values, operator} items.

If any command fails to resolve, nothing is printed except the errors of each
failing item. The chain severity is the highest severity of its commands.`,
		Args: []ArgMeta{
			{Name: "items", Description: "command [arg=value ...] followed by operator command [arg=value ...]", Required: false, DynamicComp: "commands", Variadic: true},
		},
		Flags: []FlagMeta{
			{Name: "file", Description: "YAML file with the chain items", Type: FlagTypeString, Examples: []string{"chain.yaml"}},
			{Name: "save", Description: "Write the resolved items to a YAML chain file", Type: FlagTypeString},
			{Name: "force", Description: "Overwrite the --save file without asking", Type: FlagTypeBool},
			{Name: "fail-on", Description: "Exit non-zero when severity reaches this level (caution, dangerous)", Type: FlagTypeSeverity},
		},
		Examples: []string{
			"cmdf chain ps all '|' grep pattern=nginx",
			"cmdf chain git-add path=. '&&' git-commit message='Initial commit'",
			"cmdf chain --file deploy.yaml --json",
		},
		NeedsCatalog: true,
		Tool:         true,
	},
	"show": {
		Name:        "show",
		Description: "Show a catalogue command with its arguments and examples",
		Args: []ArgMeta{
			{Name: "command", Description: "Catalogue command id, or a result number from the last search or list", Required: true, DynamicComp: "commands"},
		},
		Flags: []FlagMeta{
			{Name: "format", Description: "Output format: terminal, markdown or html", Type: FlagTypeString, Default: "terminal"},
		},
		Examples: []string{
			"cmdf show tar",
			"cmdf show docker-run --format markdown",
			"cmdf show find --format html > find.html",
		},
		NeedsCatalog: true,
		Tool:         true,
	},
	"list": {
		Name:        "list",
		Description: "List catalogue commands",
		Args: []ArgMeta{
			{Name: "category", Description: "Only list commands in this category", Required: false, DynamicComp: "categories"},
		},
		Flags: []FlagMeta{
			{Name: "os", Description: "Only list commands available on this system (linux, macos, windows)", Type: FlagTypeString},
			{Name: "categories", Description: "List categories instead of commands", Type: FlagTypeBool},
			{Name: "ids", Description: "Print only command ids, one per line", Type: FlagTypeBool},
		},
		Examples: []string{
			"cmdf list",
			"cmdf list git",
			"cmdf list --os macos --json",
			"cmdf list --categories",
			"cmdf list docker --ids | fzf",
		},
		NeedsCatalog: true,
		Tool:         true,
	},
	"search": {
		Name:        "search",
		Description: "Full-text search over catalogue commands",
		LongDesc: `Searches command ids, names, descriptions, tags and argument descriptions.

Supports FTS5 syntax: AND, OR, NOT, "quoted phrases" and prefix* matching.
Words are stemmed, so "compressing" finds "compress".

The index lives in memory unless --index-path is given, in which case it is
stored on disk and rebuilt only when the catalogue changes.

Results are numbered. show, build and chain accept a number from the last
search or list in place of a command id.`,
		Args: []ArgMeta{
			{Name: "query", Description: "Search query", Required: true},
		},
		Flags: []FlagMeta{
			{Name: "limit", Short: "n", Description: "Maximum number of results", Type: FlagTypeInt, Default: "20"},
			{Name: "category", Description: "Only search this category", Type: FlagTypeString},
			{Name: "index-path", Description: "Keep the search index in this file", Type: FlagTypeString},
		},
		Examples: []string{
			"cmdf search archive",
			"cmdf search 'container AND logs' --json",
			"cmdf search compress --category compression",
		},
		NeedsCatalog: true,
		Tool:         true,
	},
	"check": {
		Name:        "check",
		Description: "Validate the catalogue and its examples",
		LongDesc: `Loads the configured catalogues and reports every invariant violation:
duplicate ids, unknown types, arguments with both a flag and a position,
duplicate positions, options outside select arguments, min greater than max,
bad defaults and references to unknown arguments.

With --examples, every example of every command is also resolved and compared
with its expected output.

With --watch, the check runs again whenever a catalogue file changes until
interrupted.`,
		Flags: []FlagMeta{
			{Name: "examples", Description: "Resolve catalogue examples and compare their output", Type: FlagTypeBool},
			{Name: "file", Description: "Check only this catalogue file or directory", Type: FlagTypeString},
			{Name: "watch", Description: "Re-run the check when catalogue files change", Type: FlagTypeBool},
		},
		Examples: []string{
			"cmdf check",
			"cmdf check --examples",
			"cmdf check --file ./my-tools.yaml --json",
			"cmdf check --file ./my-tools --examples --watch",
		},
		Tool: true,
	},
	"config": {
		Name:        "config",
		Description: "Manage global cmdf configuration",
		LongDesc: `Inspect and edit the global config file.

Use the subcommands to show the resolved config path, create a default config,
print the current settings or set a key.`,
	},
	"config_path": {
		Name:        "config path",
		Description: "Print the resolved config file path",
		Examples:    []string{"cmdf config path", "cmdf config path --json"},
	},
	"config_init": {
		Name:        "config init",
		Description: "Create a default config file if missing",
		Examples:    []string{"cmdf config init", "cmdf --config ./cmdf.toml config init"},
	},
	"config_show": {
		Name:        "config show",
		Description: "Show the current configuration",
		Examples:    []string{"cmdf config show", "cmdf config show --json"},
	},
	"config_set": {
		Name:        "config set",
		Description: "Set a configuration key",
		LongDesc: `Sets one configuration key and writes the config file.

Keys: catalogs, builtin, log_level, log_format, ui.accent, ui.code_theme,
check.fail_on. catalogs takes a comma-separated list. An empty value clears
the key.`,
		Args: []ArgMeta{
			{Name: "key", Description: "Configuration key", Required: true, Completions: []string{"catalogs", "builtin", "log_level", "log_format", "ui.accent", "ui.code_theme", "check.fail_on"}},
			{Name: "value", Description: "New value", Required: true},
		},
		Examples: []string{
			"cmdf config set ui.accent 39",
			"cmdf config set catalogs ~/tools.yaml,~/team-catalog",
			"cmdf config set check.fail_on dangerous",
		},
	},
	"serve": {
		Name:        "serve",
		Description: "Run an MCP server on stdio",
		LongDesc: `Runs a Model Context Protocol server that speaks JSON-RPC over stdin and
stdout, so that agents can search the catalogue and build commands.

Each tool call runs this cmdf binary with --json and the same --config,
--catalog and --no-builtin flags the server was started with. Built commands
are returned, never executed.`,
		Examples: []string{
			"cmdf serve",
			"cmdf --catalog ./team-tools serve",
		},
	},
	"version": {
		Name:        "version",
		Description: "Show cmdf version and build information",
		Examples:    []string{"cmdf version", "cmdf version --json"},
	},
}
