// Package version holds the vanec build fingerprint: a semantic version
// plus optional git/build metadata, all overridable at build time via
// -ldflags the way the rest of the retrieved Go tooling in this corpus
// stamps its binaries.
package version

import "strings"

var (
	// Version is the semantic version of the vanec binary.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional short commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// VersionString renders the fingerprint cobra's --version flag prints:
// the bare version, with the commit appended in parens when known.
func VersionString() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	commit := strings.TrimSpace(GitCommit)
	if commit == "" {
		return v
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return v + " (" + commit + ")"
}
