package cli

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/commands"
	"github.com/aidanlsb/cmdforge/internal/index"
	"github.com/aidanlsb/cmdforge/internal/lastresults"
	"github.com/aidanlsb/cmdforge/internal/ui"
)

// openSearchIndex returns an index that is current for the loaded catalogue.
func openSearchIndex(path string) (*index.Index, bool, error) {
	if path == "" {
		idx, err := index.OpenMemory()
		if err != nil {
			return nil, false, err
		}
		if err := idx.Build(cat); err != nil {
			idx.Close()
			return nil, false, err
		}
		return idx, true, nil
	}

	idx, err := index.Open(path)
	if err != nil {
		return nil, false, err
	}
	rebuilt, err := idx.Ensure(cat)
	if err != nil {
		idx.Close()
		return nil, false, err
	}
	if rebuilt {
		logger.Info("rebuilt search index", "path", path, "commands", cat.Len())
	}
	return idx, rebuilt, nil
}

func runSearch(args []string, flags map[string]any) error {
	query := strings.Join(args, " ")
	limit, _ := flags["limit"].(int)
	category, _ := flags["category"].(string)
	indexPath, _ := flags["index-path"].(string)

	idx, rebuilt, err := openSearchIndex(indexPath)
	if err != nil {
		return handleError(ErrDatabaseError, fmt.Errorf("failed to open search index: %w", err), "")
	}
	defer idx.Close()

	results, err := idx.SearchCategory(query, category, limit)
	if err != nil {
		return handleError(ErrDatabaseError, err, "Check the query syntax: quote phrases and balance parentheses")
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	saveLastResults(lastresults.SourceSearch, query, ids)

	if isJSONOutput() {
		var warnings []Warning
		if rebuilt && indexPath != "" {
			warnings = append(warnings, Warning{Code: WarnIndexRebuilt, Message: "search index was rebuilt", Ref: indexPath})
		}
		if results == nil {
			results = []index.Result{}
		}
		outputSuccessWithWarnings(map[string]any{
			"query":   query,
			"results": results,
		}, warnings, &Meta{Count: len(results)})
		return nil
	}

	if ShouldUsePipeFormat() {
		items := make([]resultRow, 0, len(results))
		for i, r := range results {
			items = append(items, resultRow{Num: i + 1, ID: r.ID, Text: plainSnippet(r.Snippet), Group: r.Category})
		}
		writeRows(stdout(), items, false)
		return nil
	}

	if len(results) == 0 {
		fmt.Printf("No results found for: %s\n", query)
		return nil
	}

	fmt.Printf("Found %s for: %s\n\n", ui.Count(len(results), "result", "results"), query)
	for i, r := range results {
		fmt.Printf("%d. %s  %s\n", i+1, ui.ID(r.ID), ui.Hint(r.Category))
		if snippet := plainSnippet(r.Snippet); snippet != "" {
			fmt.Printf("   %s\n", truncate(snippet, 120))
		}
	}
	return nil
}

// plainSnippet removes the match markers and line breaks from a snippet.
func plainSnippet(s string) string {
	s = strings.NewReplacer("»", "", "«", "", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}

func init() {
	rootCmd.AddCommand(commands.GenerateCobraCommand("search", runSearch))
}
