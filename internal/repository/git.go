package repository

import "context"

// GitRepository defines the interface for version-control operations used by
// the release workflow.

type GitRepository interface {
	CurrentBranch(ctx context.Context) (string, error)
	// ListVersionTags returns all tags matching the v<digit>... pattern,
	// sorted as strings.
	ListVersionTags(ctx context.Context) ([]string, error)
	AddFiles(ctx context.Context, pattern string) error
	Commit(ctx context.Context, message string) error
	// CreateTag creates an annotated tag at HEAD.
	CreateTag(ctx context.Context, tag, msg string) error
	CheckoutBranch(ctx context.Context, name string) error
	Pull(ctx context.Context, remote, branch string) error
	// Merge merges the named branch into the current one.
	Merge(ctx context.Context, branch string) error
	PushBranch(ctx context.Context, name string) error
	PushTags(ctx context.Context) error
}
