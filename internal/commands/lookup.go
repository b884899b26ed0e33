package commands

import "strings"

// ID maps a command path as typed on the command line to its registry id:
// "config set" is "config_set".
func ID(path string) (string, bool) {
	id := strings.Join(strings.Fields(path), "_")
	if _, ok := Registry[id]; !ok {
		return "", false
	}
	return id, true
}

// Lookup returns the registry entry for a command path.
func Lookup(path string) (Meta, bool) {
	id, ok := ID(path)
	if !ok {
		return Meta{}, false
	}
	return Registry[id], true
}

// NeedsCatalog reports whether the command at path reads the catalogue.
// Unknown paths (help, completion) do not.
func NeedsCatalog(path string) bool {
	meta, ok := Lookup(path)
	return ok && meta.NeedsCatalog
}
