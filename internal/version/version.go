// Package version provides version information for packtask.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// esbuildModule is the module path of the embedded bundler.
const esbuildModule = "github.com/evanw/esbuild"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// EsbuildVersion is the esbuild module version linked into the binary.
	EsbuildVersion string `json:"esbuildVersion"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:        Version,
		GitCommit:      GitCommit,
		BuildDate:      BuildDate,
		GoVersion:      runtime.Version(),
		EsbuildVersion: moduleVersion(esbuildModule),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("packtask:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n\nesbuild:\n  Version:  %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion, i.EsbuildVersion)
}

// moduleVersion returns the version of a dependency recorded in the build
// info, or "unknown" when it is not available (e.g. in tests).
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return findModule(info.Deps, path)
}

func findModule(deps []*debug.Module, path string) string {
	for _, dep := range deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}
