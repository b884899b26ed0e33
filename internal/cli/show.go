package cli

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/catalog"
	"github.com/aidanlsb/cmdforge/internal/commands"
	"github.com/aidanlsb/cmdforge/internal/ui"
)

func runShow(args []string, flags map[string]any) error {
	id, err := resolveCommandRef(args[0])
	if err != nil {
		return handleError(ErrInvalidInput, err, "Run 'cmdf search' or 'cmdf list' before referring to results by number")
	}
	cmd, err := cat.ByID(id)
	if err != nil {
		return handleError(ErrCommandNotFound, err, "Run 'cmdf search <words>' to find command ids")
	}

	if isJSONOutput() {
		outputSuccess(map[string]any{
			"command": cmd,
			"usage":   cmd.Usage(),
		}, nil)
		return nil
	}

	doc := commandMarkdown(cmd, cat)
	format, _ := flags["format"].(string)
	switch format {
	case "", "terminal":
		if ShouldUsePipeFormat() {
			fmt.Print(doc)
			return nil
		}
		width := ui.ContentWidth(ui.MarkdownRenderMargin * 2)
		rendered, err := ui.RenderMarkdown(doc, width)
		if err != nil {
			logger.Warn("markdown rendering failed", "error", err)
			fmt.Print(doc)
			return nil
		}
		fmt.Print(rendered)
	case "markdown", "md":
		fmt.Print(doc)
	case "html":
		html, err := ui.RenderHTML(doc)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		fmt.Print(html)
	default:
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown format %q", format), "Use terminal, markdown or html")
	}
	return nil
}

// commandMarkdown documents a command: synopsis, arguments and examples.
func commandMarkdown(cmd *catalog.Command, c *catalog.Catalog) string {
	var b strings.Builder

	title := cmd.ID
	if cmd.Name != "" && cmd.Name != cmd.ID {
		title = fmt.Sprintf("%s (%s)", cmd.Name, cmd.ID)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if cmd.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", cmd.Description)
	}
	fmt.Fprintf(&b, "```sh\n%s\n```\n\n", cmd.Usage())

	var facts []string
	if cmd.Category != "" {
		name := cmd.Category
		if category, ok := c.Category(cmd.Category); ok && category.Name != "" {
			name = category.Name
		}
		facts = append(facts, "**Category:** "+name)
	}
	if len(cmd.OS) > 0 {
		facts = append(facts, "**OS:** "+strings.Join(cmd.OS, ", "))
	}
	facts = append(facts, "**Risk:** "+string(cmd.DangerLevel.Normalized()))
	if len(cmd.Tags) > 0 {
		facts = append(facts, "**Tags:** "+strings.Join(cmd.Tags, ", "))
	}
	for _, f := range facts {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("\n")

	if len(cmd.Args) > 0 {
		b.WriteString("## Arguments\n\n")
		b.WriteString("| Argument | Type | Token | Required | Details |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, a := range cmd.Args {
			token := fmt.Sprintf("`%s`", a.Flag)
			if a.Positional {
				token = fmt.Sprintf("position %d", a.Position)
			}
			required := ""
			if a.Required {
				required = "yes"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n",
				a.ID, a.Type, escapeCell(token), required, escapeCell(argumentDetails(a)))
		}
		b.WriteString("\n")
	}

	if len(cmd.Examples) > 0 {
		b.WriteString("## Examples\n\n")
		for _, ex := range cmd.Examples {
			fmt.Fprintf(&b, "**%s**\n\n```sh\n%s\n```\n\n", ex.Name, ex.Output)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func argumentDetails(a *catalog.Argument) string {
	var parts []string
	if a.Description != "" {
		parts = append(parts, a.Description)
	}
	if len(a.Options) > 0 {
		parts = append(parts, "one of: "+strings.Join(a.OptionValues(), ", "))
	}
	if a.Min != nil || a.Max != nil {
		parts = append(parts, fmt.Sprintf("range: %s..%s", catalog.FormatBound(a.Min), catalog.FormatBound(a.Max)))
	}
	if a.Default != nil {
		parts = append(parts, fmt.Sprintf("default: %v", a.Default))
	}
	if len(a.DependsOn) > 0 {
		parts = append(parts, "needs "+strings.Join(a.DependsOn, ", "))
	}
	if len(a.ConflictsWith) > 0 {
		parts = append(parts, "conflicts with "+strings.Join(a.ConflictsWith, ", "))
	}
	if a.Danger {
		parts = append(parts, "**dangerous**")
	}
	if a.Warning != "" {
		parts = append(parts, "⚠ "+a.Warning)
	}
	return strings.Join(parts, "; ")
}

// escapeCell keeps pipes and newlines from breaking a markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func init() {
	showCmd := commands.GenerateCobraCommandWithCompletion("show", runShow, completeFromCatalog)
	rootCmd.AddCommand(showCmd)
}
