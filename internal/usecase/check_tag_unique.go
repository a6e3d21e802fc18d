package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/NikoAndroid/Splitties/internal/repository"
)

// CheckTagUniqueUseCase verifies the proposed release tag does not collide
// with any previously released tag.

type CheckTagUniqueUseCase struct {
	GitRepo repository.GitRepository
}

// Execute returns the existing version tags and fails when tag is among them.
func (uc *CheckTagUniqueUseCase) Execute(ctx context.Context, tag string) ([]string, error) {
	tags, err := uc.GitRepo.ListVersionTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list version tags: %w", err)
	}
	if slices.Contains(tags, tag) {
		return tags, fmt.Errorf("tag %s already exists", tag)
	}
	return tags, nil
}
