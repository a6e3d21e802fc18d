package repository

import (
	"context"
	"errors"
	"fmt"
)

var ErrGithubTokenRequired = errors.New("github token is required for GitHub operations")

// githubNoopRepository stands in when no GitHub token is configured. Every
// operation fails with ErrGithubTokenRequired so callers can fall back to
// the fully manual choreography.
type githubNoopRepository struct {
	owner string
	repo  string
}

func NewGithubNoopRepository(owner, repo string) GithubRepository {
	return &githubNoopRepository{owner: owner, repo: repo}
}

func (r *githubNoopRepository) EnsureReleasePR(_ context.Context, _, _, _, _ string) (string, error) {
	return "", r.operationError("open pull request")
}

func (r *githubNoopRepository) PRMerged(_ context.Context, _, _ string) (bool, error) {
	return false, r.operationError("query pull request merge state")
}

func (r *githubNoopRepository) operationError(action string) error {
	return fmt.Errorf("%w: unable to %s for %s/%s", ErrGithubTokenRequired, action, r.owner, r.repo)
}
