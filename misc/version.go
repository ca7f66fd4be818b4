// Package misc provides program identification helpers.
package misc

import (
	"runtime/debug"
	"strings"
)

const appName = "cssroll"

// set by the build using -ldflags, kept overridable for releases
var (
	version = ""
	githash = ""
)

// GetAppName returns short program name used in logs, temporary files and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version - either set at build time or derived
// from module build information.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns VCS revision recorded in build information.
func GetGitHash() string {
	if len(githash) > 0 {
		return githash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				if len(s.Value) > 12 {
					return s.Value[:12]
				}
				return s.Value
			}
		}
	}
	return strings.Repeat("0", 12)
}
