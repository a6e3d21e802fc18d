package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultSnapshotSuffix marks versions that are still in development and
// therefore ineligible for release.
const DefaultSnapshotSuffix = "-SNAPSHOT"

// ValidateNewVersion checks a version entered by the operator.
// A valid version is non-empty, contains no spaces, does not start with "v",
// starts with a digit, consists only of letters, digits, dots and dashes,
// and does not carry the snapshot suffix.
func ValidateNewVersion(version, snapshotSuffix string) error {
	if version == "" {
		return fmt.Errorf("version cannot be empty")
	}
	if strings.Contains(version, " ") {
		return fmt.Errorf("version cannot contain spaces: %q", version)
	}
	if strings.HasPrefix(version, "v") {
		return fmt.Errorf("version must not start with \"v\" (the tag prefix is added automatically): %s", version)
	}
	if version[0] < '0' || version[0] > '9' {
		return fmt.Errorf("version must start with a digit: %s", version)
	}
	for _, c := range version {
		if !isVersionChar(c) {
			return fmt.Errorf("version contains invalid character %q: %s", c, version)
		}
	}
	if snapshotSuffix != "" && strings.Contains(version, snapshotSuffix) {
		return fmt.Errorf("version must not contain the snapshot marker %s: %s", snapshotSuffix, version)
	}
	return nil
}

func isVersionChar(c rune) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c == '.' || c == '-':
		return true
	}
	return false
}

// IsSnapshot reports whether the version carries the snapshot suffix.
func IsSnapshot(version, snapshotSuffix string) bool {
	return strings.HasSuffix(version, snapshotSuffix)
}

// StripSnapshot removes the snapshot suffix, if present.
func StripSnapshot(version, snapshotSuffix string) string {
	return strings.TrimSuffix(version, snapshotSuffix)
}

// WithSnapshot appends the snapshot suffix to a version name.
func WithSnapshot(version, snapshotSuffix string) string {
	return version + snapshotSuffix
}

// TagName derives the version-control tag for a version.
func TagName(tagPrefix, version string) string {
	return tagPrefix + version
}

// LatestReleasedVersion returns the highest tag from the given list,
// comparing semver-parseable tags semantically and falling back to string
// order for the rest. Returns "" when the list is empty.
func LatestReleasedVersion(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Slice(sorted, func(i, j int) bool {
		vi, erri := semver.NewVersion(sorted[i])
		vj, errj := semver.NewVersion(sorted[j])
		if erri == nil && errj == nil {
			return vi.LessThan(vj)
		}
		return sorted[i] < sorted[j]
	})
	return sorted[len(sorted)-1]
}
