package service

import "context"

// GradleService defines the interface for running the project build tool.

type GradleService interface {
	// CleanAndPublish runs the configured clean-and-publish command with
	// output streamed to the operator's terminal.
	CleanAndPublish(ctx context.Context, dir string) error
}
