package service

import "context"

// PromptService defines the interface for line-oriented operator I/O.

type PromptService interface {
	// Ask prints the label and returns the operator's trimmed response line.
	Ask(ctx context.Context, label string) (string, error)
	// Confirm prints the label and requires explicit affirmation ("Y" or
	// case-insensitive "yes"). Any other response, including an empty one,
	// returns domain.ErrCancelled.
	Confirm(ctx context.Context, label string) error
	// Say prints an informational message to the operator.
	Say(format string, args ...any)
}
