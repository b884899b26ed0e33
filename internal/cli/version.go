package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cmdforge/internal/buildinfo"
	"github.com/aidanlsb/cmdforge/internal/ui"
)

const defaultModulePath = "github.com/aidanlsb/cmdforge"

type versionInfo struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
}

// rows lists the fields for terminal output, skipping empty ones.
func (v versionInfo) rows() [][]string {
	rows := [][]string{
		{"version", v.Version},
		{"module", v.ModulePath},
		{"commit", v.Commit},
		{"commit time", v.CommitTime},
		{"modified", fmt.Sprint(v.Modified)},
		{"go", v.GoVersion},
		{"platform", v.GOOS + "/" + v.GOARCH},
	}
	out := rows[:0]
	for _, r := range rows {
		if r[1] != "" {
			out = append(out, r)
		}
	}
	return out
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show cmdf version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()

		switch {
		case isJSONOutput():
			outputSuccess(info, nil)
		case ShouldUsePipeFormat():
			for _, r := range info.rows() {
				fmt.Printf("%s\t%s\n", r[0], r[1])
			}
		default:
			fmt.Println(ui.RenderTable([]string{"cmdf", ""}, info.rows(), 0))
		}
		return nil
	},
}

// currentVersionInfo reads the module build info, falling back to the
// values injected with -ldflags for release builds.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
		set := func(dst *string, v string) {
			if v != "" {
				*dst = v
			}
		}

		set(&info.ModulePath, bi.Main.Path)
		set(&info.GoVersion, bi.GoVersion)
		set(&info.GOOS, settings["GOOS"])
		set(&info.GOARCH, settings["GOARCH"])
		info.Version = normalizeVersion(bi.Main.Version)
		info.Commit = settings["vcs.revision"]
		info.CommitTime = settings["vcs.time"]
		info.Modified = strings.EqualFold(settings["vcs.modified"], "true")
	}

	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Commit == "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = buildinfo.Date
	}
	return info
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
