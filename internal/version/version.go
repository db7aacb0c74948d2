// Package version exposes build information injected through ldflags:
//
//	-X github.com/younsl/ec2stop/internal/version.version=v1.0.0
package version

import (
	"fmt"
	"runtime"
)

// These variables are set by ldflags during build.
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// BuildInfo contains version and build details.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
}

// Get returns the build information.
func Get() BuildInfo {
	return BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
	}
}

// String formats the build information on one line.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (built: %s, commit: %s, %s)", b.Version, b.BuildDate, b.GitCommit, b.GoVersion)
}
