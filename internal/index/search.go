package index

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/sqlutil"
)

// DefaultLimit caps search results when no limit is given.
const DefaultLimit = 20

// Result is one ranked search hit.
type Result struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Snippet  string  `json:"snippet"`
	Rank     float64 `json:"rank"`
}

// Search runs a full-text query over every indexed column, best matches first.
// Identifier and name matches outrank description matches.
func (i *Index) Search(query string, limit int) ([]Result, error) {
	return i.SearchCategory(query, "", limit)
}

// SearchCategory is Search restricted to one category. An empty category
// matches everything.
func (i *Index) SearchCategory(query, category string, limit int) ([]Result, error) {
	match := BuildFTSQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := i.db.Query(`
		SELECT
			id,
			name,
			category,
			snippet(commands_fts, 3, '»', '«', '...', 16) AS snippet,
			bm25(commands_fts, 10.0, 6.0, 2.0, 3.0, 3.0, 1.0) AS rank
		FROM commands_fts
		WHERE commands_fts MATCH ? AND (? = '' OR category = ?)
		ORDER BY rank, id
		LIMIT ?
	`, match, category, category, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (Result, error) {
		var r Result
		err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.Snippet, &r.Rank)
		return r, err
	})
}

// BuildFTSQuery turns user input into a safe FTS5 MATCH expression.
// It returns "" when the input has nothing to search for.
func BuildFTSQuery(userQuery string) string {
	q := strings.TrimSpace(userQuery)
	if q == "" {
		return ""
	}
	if strings.Count(q, `"`)%2 == 1 {
		q += `"`
	}
	out := strings.TrimSpace(sanitizeFTSQuery(q))
	if out == "" || out == `""` {
		return ""
	}
	return out
}

// sanitizeFTSQuery quotes unquoted tokens that FTS5 would otherwise parse
// as syntax, such as "docker-run", "/etc/hosts" or "ls.", while keeping
// quoted phrases, boolean operators, parentheses and trailing prefix stars.
func sanitizeFTSQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)

	inQuotes := false
	i := 0
	for i < len(q) {
		c := q[i]

		if c == '"' {
			inQuotes = !inQuotes
			b.WriteByte(c)
			i++
			continue
		}

		if inQuotes {
			b.WriteByte(c)
			i++
			continue
		}

		if isSpace(c) || c == '(' || c == ')' {
			b.WriteByte(c)
			i++
			continue
		}

		start := i
		for i < len(q) {
			cc := q[i]
			if cc == '"' || cc == '(' || cc == ')' || isSpace(cc) {
				break
			}
			i++
		}
		tok := q[start:i]

		switch strings.ToUpper(tok) {
		case "AND", "OR", "NOT", "NEAR":
			b.WriteString(tok)
			continue
		}

		if isBareword(strings.TrimSuffix(tok, "*")) {
			b.WriteString(tok)
			continue
		}

		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(tok, `"`, `""`))
		b.WriteByte('"')
	}

	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isBareword reports tokens FTS5 accepts unquoted.
func isBareword(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r > 127:
		default:
			return false
		}
	}
	return true
}
