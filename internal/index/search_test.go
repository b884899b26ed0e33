package index

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(`
categories:
  - {id: compression, name: Compression, order: 1}
  - {id: docker, name: Docker, order: 2}
commands:
  - id: tar
    name: tar
    category: compression
    description: Archive files (create, extract, list)
    base: tar
    tags: [archive, backup]
    args:
      - {id: file, name: Archive File, type: text, flag: -f, required: true}
  - id: gzip
    name: gzip
    category: compression
    description: Compress files with gzip
    base: gzip
    args:
      - {id: file, type: text, positional: true, position: 1}
  - id: docker-run
    name: docker run
    category: docker
    description: Run a container from an image
    base: docker run
    args:
      - {id: detach, name: Detach, type: checkbox, flag: -d, description: Run container in background}
      - {id: image, type: text, positional: true, position: 1}
`), "test.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cat
}

func buildIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	if err := idx.Build(testCatalog(t)); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

func resultIDs(results []Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSearch(t *testing.T) {
	idx := buildIndex(t)

	tests := []struct {
		name  string
		query string
		first string
		count int
	}{
		{name: "description word", query: "archive", first: "tar", count: 1},
		{name: "stemmed", query: "compressing", first: "gzip", count: 2},
		{name: "hyphenated id", query: "docker-run", first: "docker-run", count: 1},
		{name: "argument description", query: "background", first: "docker-run", count: 1},
		{name: "category", query: "compression", count: 2},
		{name: "boolean or", query: "tar OR gzip", count: 2},
		{name: "no match", query: "kubernetes", count: 0},
		{name: "path characters", query: "/etc/hosts", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := idx.Search(tt.query, 0)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(results) != tt.count {
				t.Fatalf("Search(%q) = %v, want %d results", tt.query, resultIDs(results), tt.count)
			}
			if tt.first != "" && results[0].ID != tt.first {
				t.Errorf("Search(%q) first = %q, want %q", tt.query, results[0].ID, tt.first)
			}
		})
	}
}

func TestSearchCategoryAndLimit(t *testing.T) {
	idx := buildIndex(t)

	results, err := idx.SearchCategory("files OR container", "docker", 0)
	if err != nil {
		t.Fatalf("SearchCategory() error = %v", err)
	}
	if len(results) != 1 || results[0].ID != "docker-run" {
		t.Fatalf("SearchCategory() = %v, want [docker-run]", resultIDs(results))
	}

	results, err = idx.Search("compression", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("limit 1 returned %d results", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := buildIndex(t)
	results, err := idx.Search("   ", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("empty query returned %v", resultIDs(results))
	}
}

func TestEnsureRebuildsOnlyWhenCatalogueChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "index.db")
	cat := testCatalog(t)

	idx, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	rebuilt, err := idx.Ensure(cat)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if !rebuilt {
		t.Fatal("first Ensure() should build the index")
	}
	idx.Close()

	idx, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer idx.Close()

	rebuilt, err = idx.Ensure(cat)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if rebuilt {
		t.Fatal("Ensure() rebuilt an index that was already current")
	}
	n, err := idx.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != cat.Len() {
		t.Fatalf("Count() = %d, want %d", n, cat.Len())
	}

	smaller, err := catalog.Parse([]byte("commands:\n  - {id: ls, base: ls}\n"), "small.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rebuilt, err = idx.Ensure(smaller)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if !rebuilt {
		t.Fatal("Ensure() should rebuild after the catalogue changed")
	}
	if n, _ := idx.Count(); n != 1 {
		t.Fatalf("Count() after rebuild = %d, want 1", n)
	}
}

func TestBuildHoldsLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer idx.Close()

	lock, err := lockRebuild(path + ".lock")
	if err != nil {
		t.Fatalf("lockRebuild() error = %v", err)
	}
	defer lock.release()

	if err := idx.Build(testCatalog(t)); !errors.Is(err, ErrIndexLocked) {
		t.Fatalf("Build() error = %v, want ErrIndexLocked", err)
	}
}

func TestBuildFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "  ", want: ""},
		{in: "archive", want: "archive"},
		{in: "comp*", want: "comp*"},
		{in: "docker-run", want: `"docker-run"`},
		{in: "tar OR gzip", want: "tar OR gzip"},
		{in: `"exact phrase"`, want: `"exact phrase"`},
		{in: `"unterminated`, want: `"unterminated"`},
		{in: "/etc/hosts", want: `"/etc/hosts"`},
		{in: "(a OR b) NOT c", want: "(a OR b) NOT c"},
	}

	for _, tt := range tests {
		if got := BuildFTSQuery(tt.in); got != tt.want {
			t.Errorf("BuildFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
