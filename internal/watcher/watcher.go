// Package watcher reports changes to catalogue files.
//
// It backs `cmdf check --watch`.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors catalogue files and directories and calls OnChange with
// the changed files once they have been quiet for the debounce delay.
type Watcher struct {
	files map[string]bool
	dirs  []string

	debounceDelay time.Duration
	logger        *slog.Logger

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	onChange func(changed []string)
}

// Config holds configuration options for the Watcher.
type Config struct {
	// Paths are catalogue files or directories.
	Paths         []string
	DebounceDelay time.Duration // Default: 200ms
	Logger        *slog.Logger
	OnChange      func(changed []string)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("at least one catalogue path is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 200 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	w := &Watcher{
		files:         make(map[string]bool),
		debounceDelay: debounce,
		logger:        logger,
		pending:       make(map[string]time.Time),
		onChange:      cfg.OnChange,
	}
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
		} else {
			w.files[abs] = true
		}
	}
	return w, nil
}

// Start begins watching. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	for _, dir := range w.dirs {
		if err := w.addWatchRecursive(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	// Editors often replace files on save, so single files are watched
	// through their parent directory.
	for file := range w.files {
		if err := w.fsWatcher.Add(filepath.Dir(file)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", file, err)
		}
	}
	w.logger.Debug("watching catalogues", "dirs", len(w.dirs), "files", len(w.files))

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Relevant reports whether path is a watched file or a catalogue file
// inside a watched directory.
func (w *Watcher) Relevant(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	if !IsCatalogFile(path) || shouldIgnore(path) {
		return false
	}
	for _, dir := range w.dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IsCatalogFile reports whether path has a yaml extension.
func IsCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() && w.Relevant(filepath.Join(path, "x.yaml")) {
			if err := w.addWatchRecursive(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}
	if !w.Relevant(path) || event.Op == fsnotify.Chmod {
		return
	}

	w.logger.Debug("catalogue event", "op", event.Op.String(), "path", path)
	w.schedule(path)
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending(time.Now())
		}
	}
}

// processPending reports the files that have been quiet since now minus the
// debounce delay. All ready files are reported in one sorted call.
func (w *Watcher) processPending(now time.Time) {
	w.mu.Lock()
	var ready []string
	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(ready) == 0 {
		return
	}
	slices.Sort(ready)
	w.onChange(ready)
}

func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func shouldIgnore(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".git" || part == "node_modules" || (strings.HasPrefix(part, ".") && strings.Contains(part, ".tmp-")) {
			return true
		}
	}
	return false
}
