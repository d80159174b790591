package cli

import "golang.org/x/mod/semver"

// Version metadata, overridden at build time through SetVersionInfo.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// SetVersionInfo records the build-time version metadata injected by main.
func SetVersionInfo(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// GetVersion returns the extension version string.
func GetVersion() string {
	return version
}

// GetVersionInfo returns the version, commit, and build date.
func GetVersionInfo() (string, string, string) {
	return version, commit, buildDate
}

// isReleasedVersion reports whether v names a tagged release rather than a
// development build.
func isReleasedVersion(v string) bool {
	return semver.IsValid(ensureVersionPrefix(v))
}
