package cli

import (
	"path/filepath"

	"github.com/aidanlsb/cmdforge/internal/lastresults"
)

// stateDir keeps per-user state next to the config file.
func stateDir() string {
	return filepath.Dir(resolvedConfigPath)
}

func saveLastResults(source lastresults.Source, query string, ids []string) {
	if err := lastresults.Write(stateDir(), lastresults.New(source, query, ids)); err != nil {
		logger.Warn("failed to save last results", "error", err)
	}
}

// resolveCommandRef maps a number from the last search or list output to
// its command id. Anything that is a known id or not a number is returned
// unchanged.
func resolveCommandRef(ref string) (string, error) {
	if _, ok := cat.Lookup(ref); ok || !lastresults.IsNumber(ref) {
		return ref, nil
	}
	lr, err := lastresults.Read(stateDir())
	if err != nil {
		return "", err
	}
	nums, err := lastresults.ParseNumbers(ref)
	if err != nil {
		return "", err
	}
	ids, err := lr.GetByNumbers(nums)
	if err != nil {
		return "", err
	}
	logger.Debug("resolved result number", "ref", ref, "id", ids[0], "source", lr.Source)
	return ids[0], nil
}
