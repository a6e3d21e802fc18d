package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/NikoAndroid/Splitties/internal/domain"
)

// promptService is the implementation of the PromptService interface.
type promptService struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptService creates a new PromptService reading responses from in
// and writing prompts to out.
func NewPromptService(in io.Reader, out io.Writer) PromptService {
	return &promptService{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints the label and reads one response line.
func (s *promptService) Ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(s.out, "%s ", label)
	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read operator input: %w", err)
	}
	if err == io.EOF && line == "" {
		return "", fmt.Errorf("operator input closed: %w", domain.ErrCancelled)
	}
	return strings.TrimSpace(line), nil
}

// Confirm requires explicit affirmation before continuing.
func (s *promptService) Confirm(ctx context.Context, label string) error {
	answer, err := s.Ask(ctx, label+" [Y/yes]")
	if err != nil {
		return err
	}
	if answer == "Y" || strings.EqualFold(answer, "yes") {
		return nil
	}
	return domain.ErrCancelled
}

// Say prints an informational message.
func (s *promptService) Say(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}
