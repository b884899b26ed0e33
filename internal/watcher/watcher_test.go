package watcher

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestNewValidates(t *testing.T) {
	noop := func([]string) {}
	if _, err := New(Config{OnChange: noop}); err == nil {
		t.Error("expected an error without paths")
	}
	if _, err := New(Config{Paths: []string{t.TempDir()}}); err == nil {
		t.Error("expected an error without a callback")
	}
	if _, err := New(Config{Paths: []string{filepath.Join(t.TempDir(), "missing")}, OnChange: noop}); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	single := filepath.Join(other, "tools.txt")
	if err := os.WriteFile(single, nil, 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{Paths: []string{dir, single}, OnChange: func([]string) {}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(dir, "net.yaml"), true},
		{filepath.Join(dir, "sub", "disk.YML"), true},
		{filepath.Join(dir, "notes.md"), false},
		{filepath.Join(dir, ".git", "x.yaml"), false},
		{filepath.Join(dir, ".net.yaml.tmp-123"), false},
		{single, true},
		{filepath.Join(other, "sibling.yaml"), false},
	}
	for _, tt := range tests {
		if got := w.Relevant(tt.path); got != tt.want {
			t.Errorf("Relevant(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestProcessPendingDebounces(t *testing.T) {
	var calls [][]string
	w, err := New(Config{
		Paths:         []string{t.TempDir()},
		DebounceDelay: time.Second,
		OnChange:      func(changed []string) { calls = append(calls, changed) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w.schedule("b.yaml")
	w.schedule("a.yaml")
	now := time.Now()

	w.processPending(now)
	if len(calls) != 0 {
		t.Fatalf("reported before the debounce delay: %v", calls)
	}

	w.processPending(now.Add(2 * time.Second))
	if len(calls) != 1 || !reflect.DeepEqual(calls[0], []string{"a.yaml", "b.yaml"}) {
		t.Fatalf("calls = %v", calls)
	}

	w.processPending(now.Add(3 * time.Second))
	if len(calls) != 1 {
		t.Errorf("pending files reported twice: %v", calls)
	}
}

func TestStartReportsChanges(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tools.yaml")

	changed := make(chan []string, 16)
	w, err := New(Config{
		Paths:         []string{dir},
		DebounceDelay: 20 * time.Millisecond,
		OnChange:      func(paths []string) { changed <- paths },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case paths := <-changed:
			if len(paths) != 1 || paths[0] != target {
				t.Fatalf("changed = %v, want [%s]", paths, target)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(target, []byte("commands: []\n"), 0644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}
