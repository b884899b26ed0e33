package resolve

import "github.com/aidanlsb/cmdforge/internal/catalog"

// AssessDanger derives the risk severity of a resolution and collects the
// warnings of present arguments in declaration order. The command's own
// danger level is the floor; one present danger argument raises it to at
// least caution and two or more raise it to dangerous.
func AssessDanger(cmd *catalog.Command, norm Normalized) (catalog.DangerLevel, []string) {
	severity := cmd.DangerLevel.Normalized()
	warnings := []string{}
	dangerous := 0

	for _, a := range cmd.Args {
		if !norm.Present(a.ID) {
			continue
		}
		if a.Danger {
			dangerous++
		}
		if a.Warning != "" {
			warnings = append(warnings, a.Warning)
		}
	}

	switch {
	case dangerous >= 2:
		severity = severity.Max(catalog.DangerDangerous)
	case dangerous == 1:
		severity = severity.Max(catalog.DangerCaution)
	}
	return severity, warnings
}
