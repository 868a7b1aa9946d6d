package blueprint

import "golang.org/x/mod/semver"

// Compatible reports whether a document stored under version can be read
// by the current validator. Only the major version matters.
func Compatible(version string) bool {
	if !semver.IsValid(version) {
		return false
	}
	return semver.Major(version) == semver.Major(SchemaVersion)
}
