// Package buildinfo carries release metadata set at link time:
//
//	go build -ldflags "-X github.com/aidanlsb/cmdforge/internal/buildinfo.Version=v1.0.0" ./cmd/cmdf
//
// `cmdf version` prefers module build info and uses these only to fill gaps.
package buildinfo

var (
	Version string
	Commit  string
	Date    string
)
