package cli

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/catalog"
	"github.com/aidanlsb/cmdforge/internal/commands"
	"github.com/aidanlsb/cmdforge/internal/lastresults"
	"github.com/aidanlsb/cmdforge/internal/ui"
)

type listedCommand struct {
	ID          string              `json:"id"`
	Name        string              `json:"name,omitempty"`
	Category    string              `json:"category,omitempty"`
	Description string              `json:"description,omitempty"`
	DangerLevel catalog.DangerLevel `json:"danger_level"`
	OS          []string            `json:"os,omitempty"`
}

type listedCategory struct {
	catalog.Category
	Count int `json:"count"`
}

func runList(args []string, flags map[string]any) error {
	if showCategories, _ := flags["categories"].(bool); showCategories {
		return listCategories()
	}

	category := ""
	if len(args) > 0 {
		category = args[0]
		if _, ok := cat.Category(category); !ok && len(cat.Filter(category, "")) == 0 {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown category %q", category), "Run 'cmdf list --categories' to see categories")
		}
	}
	osName, _ := flags["os"].(string)
	osName = strings.ToLower(strings.TrimSpace(osName))

	cmds := cat.Filter(category, osName)

	ids := make([]string, 0, len(cmds))
	for _, c := range cmds {
		ids = append(ids, c.ID)
	}
	saveLastResults(lastresults.SourceList, category, ids)

	if isJSONOutput() {
		items := make([]listedCommand, 0, len(cmds))
		for _, c := range cmds {
			items = append(items, listedCommand{
				ID:          c.ID,
				Name:        c.Name,
				Category:    c.Category,
				Description: c.Description,
				DangerLevel: c.DangerLevel,
				OS:          c.OS,
			})
		}
		outputSuccess(map[string]any{"commands": items}, &Meta{Count: len(items)})
		return nil
	}

	idsOnly, _ := flags["ids"].(bool)
	if idsOnly || ShouldUsePipeFormat() {
		items := make([]resultRow, 0, len(cmds))
		for i, c := range cmds {
			items = append(items, resultRow{Num: i + 1, ID: c.ID, Text: c.Description, Group: c.Category})
		}
		writeRows(stdout(), items, idsOnly)
		return nil
	}

	if len(cmds) == 0 {
		fmt.Println(ui.Info("No commands match."))
		return nil
	}

	width := ui.TerminalWidth()
	for _, group := range groupByCategory(cmds) {
		title := group.id
		if c, ok := cat.Category(group.id); ok && c.Name != "" {
			title = strings.TrimSpace(c.Icon + " " + c.Name)
		}
		fmt.Printf("%s %s\n", ui.Header(title), ui.Hint(ui.Count(len(group.cmds), "command", "commands")))

		rows := make([][]string, 0, len(group.cmds))
		for _, c := range group.cmds {
			risk := ""
			if c.DangerLevel.Rank() > 0 {
				risk = string(c.DangerLevel)
			}
			rows = append(rows, []string{c.ID, truncate(c.Description, 60), risk})
		}
		fmt.Println(ui.RenderTable([]string{"ID", "Description", "Risk"}, rows, min(width, 100)))
		fmt.Println()
	}
	return nil
}

type commandGroup struct {
	id   string
	cmds []*catalog.Command
}

// groupByCategory keeps the catalogue order of categories as first seen.
func groupByCategory(cmds []*catalog.Command) []commandGroup {
	var groups []commandGroup
	index := make(map[string]int)
	for _, c := range cmds {
		i, ok := index[c.Category]
		if !ok {
			i = len(groups)
			index[c.Category] = i
			groups = append(groups, commandGroup{id: c.Category})
		}
		groups[i].cmds = append(groups[i].cmds, c)
	}
	return groups
}

func listCategories() error {
	categories := cat.Categories()
	items := make([]listedCategory, 0, len(categories))
	for _, c := range categories {
		items = append(items, listedCategory{Category: c, Count: len(cat.Filter(c.ID, ""))})
	}

	if isJSONOutput() {
		outputSuccess(map[string]any{"categories": items}, &Meta{Count: len(items)})
		return nil
	}

	if ShouldUsePipeFormat() {
		pipeItems := make([]resultRow, 0, len(items))
		for i, c := range items {
			pipeItems = append(pipeItems, resultRow{Num: i + 1, ID: c.ID, Text: c.Name, Group: fmt.Sprint(c.Count)})
		}
		writeRows(stdout(), pipeItems, false)
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{c.ID, strings.TrimSpace(c.Icon + " " + c.Name), fmt.Sprint(c.Count)})
	}
	fmt.Println(ui.RenderTable([]string{"ID", "Name", "Commands"}, rows, 0))
	return nil
}

func init() {
	rootCmd.AddCommand(commands.GenerateCobraCommandWithCompletion("list", runList, completeFromCatalog))
}
