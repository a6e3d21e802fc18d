package service

import (
	"context"
	"fmt"
)

// gradleService is the implementation of the GradleService interface.
type gradleService struct {
	runner  CommandRunner
	command string
}

// NewGradleService creates a new GradleService running the given
// clean-and-publish command line.
func NewGradleService(runner CommandRunner, command string) GradleService {
	return &gradleService{
		runner:  runner,
		command: command,
	}
}

// CleanAndPublish runs the publish command in streaming mode.
func (s *gradleService) CleanAndPublish(ctx context.Context, dir string) error {
	if err := s.runner.Stream(ctx, dir, s.command); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}
