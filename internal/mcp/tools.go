package mcp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/commands"
)

const toolPrefix = "cmdf_"

// blockingFlags never return over stdio and are left out of tool schemas.
var blockingFlags = map[string]bool{"watch": true}

// GenerateToolSchemas builds MCP tool schemas from the command registry so
// that tools stay in sync with the CLI. Tools are sorted by name.
func GenerateToolSchemas() []Tool {
	var tools []Tool

	for id, meta := range commands.Registry {
		if !meta.Tool {
			continue
		}
		tool := Tool{
			Name:        mcpToolName(id),
			Description: meta.Description,
			InputSchema: InputSchema{
				Type:       "object",
				Properties: make(map[string]interface{}),
			},
		}
		if meta.LongDesc != "" {
			tool.Description = meta.LongDesc
		}

		var required []string
		for _, arg := range meta.Args {
			prop := map[string]interface{}{
				"type":        "string",
				"description": arg.Description,
			}
			if arg.Variadic {
				prop = map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": arg.Description + " (one token per element)",
				}
			}
			tool.InputSchema.Properties[arg.Name] = prop
			if arg.Required {
				required = append(required, arg.Name)
			}
		}

		for _, flag := range meta.Flags {
			if blockingFlags[flag.Name] {
				continue
			}
			prop := map[string]interface{}{
				"description": flag.Description,
			}

			name := flag.Name
			switch flag.Type {
			case commands.FlagTypeBool:
				prop["type"] = "boolean"
			case commands.FlagTypeInt:
				prop["type"] = "integer"
			case commands.FlagTypeSeverity:
				prop["type"] = "string"
				prop["enum"] = []string{"none", "caution", "dangerous"}
			case commands.FlagTypePosKeyValue:
				name = "values"
				if hasFlag(meta, "values") {
					name = "args"
				}
				prop["type"] = "object"
				prop["description"] = "Argument values keyed by argument id; true switches a checkbox on"
			default:
				prop["type"] = "string"
			}
			if len(flag.Examples) > 0 {
				prop["examples"] = flag.Examples
			}
			tool.InputSchema.Properties[name] = prop
		}

		if len(required) > 0 {
			tool.InputSchema.Required = required
		}
		tools = append(tools, tool)
	}

	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

func hasFlag(meta commands.Meta, name string) bool {
	for _, f := range meta.Flags {
		if f.Name == name && f.Type != commands.FlagTypePosKeyValue {
			return true
		}
	}
	return false
}

// mcpToolName converts a registry id to an MCP tool name, e.g. "build" to
// "cmdf_build".
func mcpToolName(id string) string {
	return toolPrefix + strings.ReplaceAll(id, " ", "_")
}

// CommandID converts an MCP tool name back to a registry id. It reports
// false for names that are not exposed tools.
func CommandID(toolName string) (string, bool) {
	id, ok := strings.CutPrefix(toolName, toolPrefix)
	if !ok {
		return "", false
	}
	meta, ok := commands.Registry[id]
	if !ok || !meta.Tool {
		return "", false
	}
	return id, true
}

// BuildCLIArgs builds CLI arguments from MCP tool arguments using the
// registry. The order is always:
//  1. command name
//  2. flags with their values
//  3. --json
//  4. "--" so that values starting with "-" are never parsed as flags
//  5. positional arguments in registry order, then arg=value pairs
//
// Property names may use underscores or hyphens. It returns nil for an
// unknown tool.
func BuildCLIArgs(toolName string, args map[string]interface{}) []string {
	id, ok := CommandID(toolName)
	if !ok {
		return nil
	}
	meta := commands.Registry[id]
	normalized := normalizeArgs(args)

	cliArgs := strings.Fields(meta.Name)

	var pairs []string
	for _, flag := range meta.Flags {
		if flag.Type == commands.FlagTypePosKeyValue {
			name := "values"
			if hasFlag(meta, "values") {
				name = "args"
			}
			pairs = keyValuePairs(normalized[name])
			continue
		}

		val, ok := normalized[flag.Name]
		if !ok || blockingFlags[flag.Name] {
			continue
		}

		switch flag.Type {
		case commands.FlagTypeBool:
			if boolVal, ok := val.(bool); ok && boolVal {
				cliArgs = append(cliArgs, "--"+flag.Name)
			}
		case commands.FlagTypeInt:
			if numVal, ok := val.(float64); ok {
				cliArgs = append(cliArgs, "--"+flag.Name, strconv.Itoa(int(numVal)))
			}
		case commands.FlagTypeStringSlice:
			if strVal, ok := val.(string); ok {
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						cliArgs = append(cliArgs, "--"+flag.Name, item)
					}
				}
			}
		default:
			if strVal := toString(val); strVal != "" {
				cliArgs = append(cliArgs, "--"+flag.Name, strVal)
			}
		}
	}

	cliArgs = append(cliArgs, "--json", "--")

	for _, arg := range meta.Args {
		val, ok := normalized[arg.Name]
		if !ok {
			continue
		}
		switch v := val.(type) {
		case []interface{}:
			for _, item := range v {
				if s := toString(item); s != "" {
					cliArgs = append(cliArgs, s)
				}
			}
		default:
			if s := toString(v); s != "" {
				cliArgs = append(cliArgs, s)
			}
		}
	}

	return append(cliArgs, pairs...)
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// keyValuePairs turns argument values into "id=value" strings.
//
// Accepted forms:
//   - object: {"file":"a.tgz","create":true} gives ["create=true","file=a.tgz"] (sorted by key)
//   - string: "file=a.tgz" or "file=a.tgz,create=true"
//   - array:  ["file=a.tgz","create"]
func keyValuePairs(v interface{}) []string {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, formatValue(val[k])))
		}
		return pairs
	case string:
		var pairs []string
		for _, p := range strings.Split(val, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pairs = append(pairs, p)
			}
		}
		return pairs
	case []interface{}:
		var pairs []string
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				pairs = append(pairs, strings.TrimSpace(s))
			}
		}
		return pairs
	default:
		return nil
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// normalizeArgs accepts property names with underscores as well as the
// registry's hyphenated names (e.g. "fail_on" for "fail-on").
func normalizeArgs(args map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(args)*2)
	for k, v := range args {
		normalized[k] = v
		if hyphenKey := strings.ReplaceAll(k, "_", "-"); hyphenKey != k {
			if _, exists := args[hyphenKey]; !exists {
				normalized[hyphenKey] = v
			}
		}
	}
	return normalized
}
