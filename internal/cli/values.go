package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/cmdforge/internal/catalog"
	"github.com/aidanlsb/cmdforge/internal/resolve"
)

// severityFlag is a pflag.Value accepting a risk threshold.
type severityFlag struct {
	level catalog.DangerLevel
}

func (f *severityFlag) String() string {
	return string(f.level)
}

func (f *severityFlag) Set(s string) error {
	level := catalog.DangerLevel(strings.ToLower(strings.TrimSpace(s)))
	switch level {
	case "", catalog.DangerNone:
		f.level = ""
	case catalog.DangerCaution, catalog.DangerDangerous:
		f.level = level
	default:
		return fmt.Errorf("must be caution or dangerous, got %q", s)
	}
	return nil
}

func (f *severityFlag) Type() string {
	return "severity"
}

// failThreshold returns the effective --fail-on level: the flag when given,
// otherwise [check] fail_on from the config.
func failThreshold(flag *severityFlag, changed bool) catalog.DangerLevel {
	if changed {
		return flag.level
	}
	var fromConfig severityFlag
	if cfg != nil && fromConfig.Set(cfg.Check.FailOn) == nil {
		return fromConfig.level
	}
	return ""
}

// reachesThreshold reports whether severity is at or above threshold.
// An empty threshold is never reached.
func reachesThreshold(severity, threshold catalog.DangerLevel) bool {
	return threshold != "" && severity.Rank() >= threshold.Rank()
}

// loadValuesFile reads a YAML mapping of argument ids to values.
func loadValuesFile(path string) (resolve.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file: %w", err)
	}
	values := resolve.Values{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
	}
	return values, nil
}

// collectValues merges a values file with arg=value pairs, pairs winning.
func collectValues(valuesFile string, pairs []string) (resolve.Values, error) {
	values := resolve.Values{}
	if valuesFile != "" {
		fromFile, err := loadValuesFile(valuesFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			values[k] = v
		}
	}
	fromArgs, err := resolve.ParseValues(pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range fromArgs {
		values[k] = v
	}
	return values, nil
}

// resultWarnings converts argument warnings and the severity into envelope warnings.
func resultWarnings(severity catalog.DangerLevel, warnings []string) []Warning {
	var out []Warning
	if severity.Rank() > 0 {
		out = append(out, Warning{Code: WarnRisk, Message: "command severity is " + string(severity), Ref: string(severity)})
	}
	for _, w := range warnings {
		out = append(out, Warning{Code: WarnArgument, Message: w})
	}
	return out
}
