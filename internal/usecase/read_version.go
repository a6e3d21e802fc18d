package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/NikoAndroid/Splitties/internal/repository"
	"github.com/spf13/afero"
)

// ReadVersionUseCase locates the single version declaration line in the
// version file and returns the quoted version it declares.

type ReadVersionUseCase struct {
	Fs         repository.FileSystemRepository
	Path       string
	LinePrefix string
}

// Execute runs the use case.
func (uc *ReadVersionUseCase) Execute(_ context.Context) (string, error) {
	data, err := afero.ReadFile(uc.Fs, uc.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read version file %s: %w", uc.Path, err)
	}
	var found []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), uc.LinePrefix) {
			found = append(found, line)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no line matching prefix %q in %s", uc.LinePrefix, uc.Path)
	case 1:
		// fall through
	default:
		return "", fmt.Errorf("%d lines match prefix %q in %s, expected exactly one", len(found), uc.LinePrefix, uc.Path)
	}
	version, err := quotedValue(found[0])
	if err != nil {
		return "", fmt.Errorf("malformed version line in %s: %w", uc.Path, err)
	}
	return version, nil
}

// quotedValue extracts the text between the first pair of double quotes.
func quotedValue(line string) (string, error) {
	start := strings.IndexByte(line, '"')
	if start < 0 {
		return "", fmt.Errorf("no quoted version on line: %s", strings.TrimSpace(line))
	}
	end := strings.IndexByte(line[start+1:], '"')
	if end < 0 {
		return "", fmt.Errorf("unterminated quoted version on line: %s", strings.TrimSpace(line))
	}
	return line[start+1 : start+1+end], nil
}
