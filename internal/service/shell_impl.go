package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// shellService is the implementation of the CommandRunner interface.
type shellService struct {
	// timeout for captured command execution
	timeout time.Duration
	logger  *zap.Logger
}

// NewCommandRunner creates a new CommandRunner.
func NewCommandRunner(logger *zap.Logger) CommandRunner {
	return &shellService{
		timeout: DefaultCommandTimeout,
		logger:  logger,
	}
}

// Capture runs the command, waits for it and returns the captured standard
// output. A non-zero exit status yields an ExitError carrying the exit code.
func (s *shellService) Capture(ctx context.Context, dir, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	cmd, err := s.buildCommand(ctx, dir, command)
	if err != nil {
		return "", err
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	start := time.Now()
	runErr := cmd.Run()
	s.logger.Debug("command finished",
		zap.String("command", command),
		zap.String("dir", dir),
		zap.Duration("took", time.Since(start)),
		zap.Bool("captured", true),
	)
	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("command %q timed out after %v", command, s.timeout)
		}
		return "", s.wrapRunError(command, runErr, stderr.String())
	}
	return stdout.String(), nil
}

// Stream runs the command with the operator's own standard streams so the
// operator sees its output live and can answer its prompts.
func (s *shellService) Stream(ctx context.Context, dir, command string) error {
	cmd, err := s.buildCommand(ctx, dir, command)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	start := time.Now()
	runErr := cmd.Run()
	s.logger.Debug("command finished",
		zap.String("command", command),
		zap.String("dir", dir),
		zap.Duration("took", time.Since(start)),
		zap.Bool("captured", false),
	)
	if runErr != nil {
		return s.wrapRunError(command, runErr, "")
	}
	return nil
}

func (s *shellService) buildCommand(ctx context.Context, dir, command string) (*exec.Cmd, error) {
	tokens, err := SplitCommand(command)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, tokens[0], tokens[1:]...)
	cmd.Dir = dir
	return cmd, nil
}

func (s *shellService) wrapRunError(command string, runErr error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return &ExitError{
			Command: command,
			Code:    exitErr.ExitCode(),
			Stderr:  strings.TrimSpace(stderr),
		}
	}
	return fmt.Errorf("failed to run command %q: %w", command, runErr)
}
