// Package sqlutil holds small database/sql helpers shared by the index.
package sqlutil

import "database/sql"

// ScanRows scans every row with scan and closes rows. It never returns a
// nil slice on success so that empty results encode as [].
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
