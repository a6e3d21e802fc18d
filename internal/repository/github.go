package repository

import "context"

// GithubRepository defines the interface for optional GitHub API operations.
// The release choreography works without it; when available it opens the
// release pull request and reports its merge state so the operator has less
// to do by hand.

type GithubRepository interface {
	// EnsureReleasePR opens the release pull request from head to base, or
	// updates the existing open one, and returns its URL.
	EnsureReleasePR(ctx context.Context, head, base, title, body string) (string, error)
	// PRMerged reports whether the pull request from head to base has been
	// merged.
	PRMerged(ctx context.Context, head, base string) (bool, error)
}
