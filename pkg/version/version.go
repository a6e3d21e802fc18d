// Package version exposes build metadata injected at link time.
package version

import (
	"fmt"
	"strings"
)

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary returns a single-line version string for CLI output.
func Summary() string {
	return fmt.Sprintf("%s (commit %s, built %s)",
		orFallback(Version, "dev"),
		orFallback(CommitHash, "unknown"),
		orFallback(BuildDate, "unknown"))
}

func orFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
