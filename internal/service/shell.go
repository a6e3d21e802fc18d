package service

import (
	"context"
	"fmt"
	"strings"
)

// CommandRunner defines the interface for running external commands.
//
// Capture runs the command and returns its standard output, which is only
// usable when the command exits zero. Stream inherits the operator's
// terminal so interactive sub-process prompts reach the operator directly.
// An empty dir runs the command in the process working directory.

type CommandRunner interface {
	Capture(ctx context.Context, dir, command string) (string, error)
	Stream(ctx context.Context, dir, command string) error
}

// ExitError is returned when a command exits with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q exited with code %d: %s", e.Command, e.Code, e.Stderr)
	}
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.Code)
}

// SplitCommand tokenizes a command line. Double-quoted segments form a
// single token and may contain spaces; unquoted tokens split on whitespace.
func SplitCommand(command string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inQuote := false
	hasToken := false
	for _, c := range command {
		switch {
		case c == '"':
			inQuote = !inQuote
			hasToken = true
		case (c == ' ' || c == '\t') && !inQuote:
			if hasToken {
				tokens = append(tokens, current.String())
				current.Reset()
				hasToken = false
			}
		default:
			current.WriteRune(c)
			hasToken = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unbalanced double quote in command: %s", command)
	}
	if hasToken {
		tokens = append(tokens, current.String())
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return tokens, nil
}
