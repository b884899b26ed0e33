package cli

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/aidanlsb/cmdforge/internal/buildinfo"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestCurrentVersionInfo(t *testing.T) {
	tests := []struct {
		name    string
		bi      *debug.BuildInfo
		ldflags [3]string
		want    versionInfo
	}{
		{
			name: "module build info",
			bi: &debug.BuildInfo{
				GoVersion: "go1.23.4",
				Main:      debug.Module{Path: "github.com/aidanlsb/cmdforge", Version: "v1.2.3"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
					{Key: "vcs.modified", Value: "true"},
					{Key: "GOOS", Value: "windows"},
					{Key: "GOARCH", Value: "amd64"},
				},
			},
			want: versionInfo{
				Version:    "v1.2.3",
				ModulePath: "github.com/aidanlsb/cmdforge",
				Commit:     "abc123",
				CommitTime: "2026-02-14T17:00:00Z",
				Modified:   true,
				GoVersion:  "go1.23.4",
				GOOS:       "windows",
				GOARCH:     "amd64",
			},
		},
		{
			name: "no build info",
			want: versionInfo{
				Version:    "devel",
				ModulePath: defaultModulePath,
				GoVersion:  runtime.Version(),
				GOOS:       runtime.GOOS,
				GOARCH:     runtime.GOARCH,
			},
		},
		{
			name:    "ldflags fill a devel build",
			bi:      &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			ldflags: [3]string{"v0.4.0", "f00d", "2026-03-01"},
			want: versionInfo{
				Version:    "v0.4.0",
				ModulePath: defaultModulePath,
				Commit:     "f00d",
				CommitTime: "2026-03-01",
				GoVersion:  runtime.Version(),
				GOOS:       runtime.GOOS,
				GOARCH:     runtime.GOARCH,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.bi)
			prevV, prevC, prevD := buildinfo.Version, buildinfo.Commit, buildinfo.Date
			t.Cleanup(func() { buildinfo.Version, buildinfo.Commit, buildinfo.Date = prevV, prevC, prevD })
			buildinfo.Version, buildinfo.Commit, buildinfo.Date = tt.ldflags[0], tt.ldflags[1], tt.ldflags[2]

			if got := currentVersionInfo(); got != tt.want {
				t.Errorf("currentVersionInfo() = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main:      debug.Module{Path: "github.com/aidanlsb/cmdforge", Version: "v1.0.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "GOOS", Value: "darwin"},
			{Key: "GOARCH", Value: "arm64"},
		},
	})
	config := []string{"--config", writeFile(t, t.TempDir(), "config.toml", "")}

	t.Run("json", func(t *testing.T) {
		res, err := runJSON(t, config, "version")
		if err != nil {
			t.Fatalf("version: %v", err)
		}
		res.MustSucceed(t)
		if got := res.DataString("version"); got != "v1.0.0" {
			t.Errorf("version = %q", got)
		}
		if got := res.DataString("commit"); got != "deadbeef" {
			t.Errorf("commit = %q", got)
		}
		if got := res.DataString("goos"); got != "darwin" {
			t.Errorf("goos = %q", got)
		}
	})

	t.Run("pipe", func(t *testing.T) {
		out, err := runCLI(t, append(config, "--pipe", "version")...)
		if err != nil {
			t.Fatalf("version: %v", err)
		}
		want := "version\tv1.0.0\n" +
			"module\tgithub.com/aidanlsb/cmdforge\n" +
			"commit\tdeadbeef\n" +
			"modified\tfalse\n" +
			"go\tgo1.23.4\n" +
			"platform\tdarwin/arm64\n"
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})
}
