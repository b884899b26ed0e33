// Package lastresults remembers the command ids printed by the most recent
// search or list so that follow-up commands can refer to them by number.
package lastresults

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/cmdforge/internal/atomicfile"
)

// FileName is the name of the results file inside the state directory.
const FileName = "last-results.json"

// Source identifies the command that produced the results.
type Source string

const (
	SourceSearch Source = "search"
	SourceList   Source = "list"
)

// LastResults stores the ids printed by the most recent retrieval command.
type LastResults struct {
	Source    Source    `json:"source"`
	Query     string    `json:"query,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	IDs       []string  `json:"ids"`
}

var (
	ErrNoLastResults    = errors.New("no last results available")
	ErrNumberOutOfRange = errors.New("result number out of range")
)

// New records ids in display order.
func New(source Source, query string, ids []string) *LastResults {
	if ids == nil {
		ids = []string{}
	}
	return &LastResults{
		Source:    source,
		Query:     query,
		Timestamp: time.Now(),
		IDs:       ids,
	}
}

// Path returns the results file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Write replaces the results file in dir.
func Write(dir string, lr *LastResults) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(lr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last results: %w", err)
	}
	err = atomicfile.Write(Path(dir), 0644, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write last results: %w", err)
	}
	return nil
}

// Read loads the results file from dir. A missing file is ErrNoLastResults.
func Read(dir string) (*LastResults, error) {
	data, err := os.ReadFile(Path(dir))
	if os.IsNotExist(err) {
		return nil, ErrNoLastResults
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last results: %w", err)
	}
	var lr LastResults
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse last results: %w", err)
	}
	return &lr, nil
}

// GetByNumbers returns the ids for the given 1-indexed numbers.
func (lr *LastResults) GetByNumbers(nums []int) ([]string, error) {
	ids := make([]string, 0, len(nums))
	for _, num := range nums {
		if num < 1 || num > len(lr.IDs) {
			return nil, fmt.Errorf("%w: %d (valid range: 1-%d)", ErrNumberOutOfRange, num, len(lr.IDs))
		}
		ids = append(ids, lr.IDs[num-1])
	}
	return ids, nil
}
