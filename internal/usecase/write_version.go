package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/NikoAndroid/Splitties/internal/repository"
	"github.com/spf13/afero"
)

// versionFilePermissions is used when rewriting the version file.
const versionFilePermissions = 0644

// WriteVersionUseCase rewrites the quoted version on the single matching
// declaration line, preserving every other byte of the file.

type WriteVersionUseCase struct {
	Fs         repository.FileSystemRepository
	Path       string
	LinePrefix string
}

// Execute runs the use case.
func (uc *WriteVersionUseCase) Execute(_ context.Context, newVersion string) error {
	data, err := afero.ReadFile(uc.Fs, uc.Path)
	if err != nil {
		return fmt.Errorf("failed to read version file %s: %w", uc.Path, err)
	}
	lines := strings.Split(string(data), "\n")
	matched := -1
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimLeft(line, " \t"), uc.LinePrefix) {
			continue
		}
		if matched >= 0 {
			return fmt.Errorf("multiple lines match prefix %q in %s, expected exactly one", uc.LinePrefix, uc.Path)
		}
		matched = i
	}
	if matched < 0 {
		return fmt.Errorf("no line matching prefix %q in %s", uc.LinePrefix, uc.Path)
	}
	rewritten, err := rewriteQuotedValue(lines[matched], newVersion)
	if err != nil {
		return fmt.Errorf("malformed version line in %s: %w", uc.Path, err)
	}
	lines[matched] = rewritten
	out := strings.Join(lines, "\n")
	if err := afero.WriteFile(uc.Fs, uc.Path, []byte(out), versionFilePermissions); err != nil {
		return fmt.Errorf("failed to write version file %s: %w", uc.Path, err)
	}
	return nil
}

// rewriteQuotedValue replaces the text between the first pair of double
// quotes, keeping everything before and after intact.
func rewriteQuotedValue(line, value string) (string, error) {
	start := strings.IndexByte(line, '"')
	if start < 0 {
		return "", fmt.Errorf("no quoted version on line: %s", strings.TrimSpace(line))
	}
	end := strings.IndexByte(line[start+1:], '"')
	if end < 0 {
		return "", fmt.Errorf("unterminated quoted version on line: %s", strings.TrimSpace(line))
	}
	return line[:start+1] + value + line[start+1+end:], nil
}
