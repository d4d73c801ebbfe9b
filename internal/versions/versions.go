package versions

import (
	"regexp"
	"strings"
)

// SnapshotQualifier marks a version as in development
const SnapshotQualifier = "SNAPSHOT"

// timestampPattern matches deployed snapshot versions such as 1.0-20240101.120000-3
var timestampPattern = regexp.MustCompile(`^(.*)-([0-9]{8}\.[0-9]{6})-([0-9]+)$`)

// IsSnapshot reports whether a version denotes a pre-release (snapshot) build.
// The SNAPSHOT suffix is matched case-insensitively.
func IsSnapshot(version string) bool {
	if version == "" {
		return false
	}
	if len(version) >= len(SnapshotQualifier) &&
		strings.EqualFold(version[len(version)-len(SnapshotQualifier):], SnapshotQualifier) {
		return true
	}
	return timestampPattern.MatchString(version)
}

// ReleaseString strips the snapshot marker from a version:
// 1.0-SNAPSHOT and 1.0-20240101.120000-3 both become 1.0.
func ReleaseString(version string) string {
	if m := timestampPattern.FindStringSubmatch(version); m != nil {
		return m[1]
	}
	if !IsSnapshot(version) {
		return version
	}
	base := version[:len(version)-len(SnapshotQualifier)]
	return strings.TrimRight(base, "-.")
}

// SnapshotString appends the snapshot marker unless already present
func SnapshotString(version string) string {
	if IsSnapshot(version) {
		return version
	}
	return version + "-" + SnapshotQualifier
}
