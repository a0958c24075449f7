// Package version reports build information for the codg binaries
package version

import "runtime"

// BuildInfo holds version information about a build
type BuildInfo struct {
	Service string `json:"service" example:"codg-api"`
	Version string `json:"version" example:"v0.3.0"`
	Commit  string `json:"commit" example:"1a2b3c4"`
	Date    string `json:"date" example:"2025-06-01"`
	Go      string `json:"go" example:"go1.25.0"`
}

// Info returns the build information for service
// version, commit and date are set at build time, e.g.
// -ldflags "-X 'codg/internal/core/version.version=v0.3.0' -X 'codg/internal/core/version.commit=1a2b3c4'"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
}

// String is the one line form printed by `codg version`
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ", " + b.Go + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
