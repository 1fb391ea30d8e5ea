// Package version exposes build metadata set with -ldflags.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Set at build time:
//
//	-ldflags "-X github.com/rshade/ecoquest/pkg/version.version=v1.2.3"
var (
	version   = "0.0.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the semantic version of the build.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns when the binary was built.
func GetBuildDate() string {
	return buildDate
}

// Info returns a one-line description for `ecoquest --version`. Semantic
// versions are shown in canonical "vX.Y.Z" form whether or not the build
// set the "v" prefix; anything else is shown as set.
func Info() string {
	display := GetVersion()
	if v, err := semver.NewVersion(display); err == nil {
		display = "v" + v.String()
	}
	return fmt.Sprintf("%s (commit %s, built %s, %s/%s)",
		display, GetGitCommit(), GetBuildDate(), runtime.GOOS, runtime.GOARCH)
}
