// Package index maintains a SQLite full-text index over the command catalogue.
package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

// schemaVersion is bumped whenever the table layout changes.
const schemaVersion = 1

// ErrIndexLocked indicates another process is rebuilding the index.
var ErrIndexLocked = errors.New("index is locked for rebuild")

// Index is the SQLite search index handle.
type Index struct {
	db   *sql.DB
	path string
}

// OpenMemory opens a private in-memory index.
func OpenMemory() (*Index, error) {
	return open(":memory:", "")
}

// Open opens or creates an index file at path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	return open(path, path)
}

func open(dsn, path string) (*Index, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	idx := &Index{db: db, path: path}
	if err := idx.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Close releases the database.
func (i *Index) Close() error {
	return i.db.Close()
}

// Path returns the index file, or "" for an in-memory index.
func (i *Index) Path() string {
	return i.path
}

func (i *Index) initialize() error {
	var version int
	if err := i.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read index version: %w", err)
	}
	if version != 0 && version != schemaVersion {
		if _, err := i.db.Exec(`DROP TABLE IF EXISTS commands_fts; DROP TABLE IF EXISTS meta;`); err != nil {
			return fmt.Errorf("failed to drop outdated index: %w", err)
		}
	}

	_, err := i.db.Exec(fmt.Sprintf(`
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS commands_fts USING fts5(
			id,
			name,
			category,
			description,
			tags,
			args,
			tokenize = 'porter unicode61'
		);

		PRAGMA user_version = %d;
	`, schemaVersion))
	if err != nil {
		return fmt.Errorf("failed to initialize index schema: %w", err)
	}
	return nil
}

// Fingerprint returns a digest of the searchable catalogue content.
// The index is rebuilt when the stored fingerprint differs.
func Fingerprint(cat *catalog.Catalog) string {
	h := sha256.New()
	for _, cmd := range cat.Commands() {
		for _, field := range document(cmd) {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Current reports whether the index was built from an identical catalogue.
func (i *Index) Current(cat *catalog.Catalog) (bool, error) {
	var stored string
	err := i.db.QueryRow(`SELECT value FROM meta WHERE key = 'fingerprint'`).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read index fingerprint: %w", err)
	}
	return stored == Fingerprint(cat), nil
}

// Ensure rebuilds the index unless it already matches cat.
// It reports whether a rebuild happened.
func (i *Index) Ensure(cat *catalog.Catalog) (bool, error) {
	ok, err := i.Current(cat)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	return true, i.Build(cat)
}

// Build replaces the indexed content with every command of cat.
func (i *Index) Build(cat *catalog.Catalog) error {
	if i.path != "" {
		lock, err := lockRebuild(i.path + ".lock")
		if err != nil {
			return err
		}
		defer lock.release()
	}

	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM commands_fts`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO commands_fts (id, name, category, description, tags, args) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, cmd := range cat.Commands() {
		doc := document(cmd)
		if _, err := stmt.Exec(doc[0], doc[1], doc[2], doc[3], doc[4], doc[5]); err != nil {
			return fmt.Errorf("failed to index %s: %w", cmd.ID, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO meta (key, value) VALUES ('fingerprint', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		Fingerprint(cat),
	); err != nil {
		return fmt.Errorf("failed to store index fingerprint: %w", err)
	}

	return tx.Commit()
}

// Count returns the number of indexed commands.
func (i *Index) Count() (int, error) {
	var n int
	if err := i.db.QueryRow(`SELECT count(*) FROM commands_fts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count index rows: %w", err)
	}
	return n, nil
}

// document returns the indexed columns of a command in table order.
func document(cmd *catalog.Command) [6]string {
	var args []string
	for _, a := range cmd.Args {
		parts := []string{a.ID}
		if a.Name != "" && a.Name != a.ID {
			parts = append(parts, a.Name)
		}
		if a.Description != "" {
			parts = append(parts, a.Description)
		}
		args = append(args, strings.Join(parts, " "))
	}
	name := cmd.Name
	if name == "" {
		name = cmd.Base
	}
	return [6]string{
		cmd.ID,
		name,
		cmd.Category,
		cmd.Description,
		strings.Join(cmd.Tags, " "),
		strings.Join(args, "\n"),
	}
}
