package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/NikoAndroid/Splitties/internal/config"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// githubRepository is the implementation of the GithubRepository interface.
type githubRepository struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGithubRepository creates a new GithubRepository with validation.
func NewGithubRepository(token, owner, repo string) (GithubRepository, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return &githubRepository{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// EnsureReleasePR opens or updates the release pull request and returns its URL.
func (r *githubRepository) EnsureReleasePR(ctx context.Context, head, base, title, body string) (string, error) {
	prs, _, err := r.client.PullRequests.List(ctx, r.owner, r.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", r.owner, head),
		Base:  base,
		State: "open",
	})
	if err != nil {
		return "", fmt.Errorf("failed to list pull requests: %w", err)
	}
	if len(prs) > 0 {
		pr := prs[0]
		pr.Title = &title
		pr.Body = &body
		updated, _, err := r.client.PullRequests.Edit(ctx, r.owner, r.repo, pr.GetNumber(), pr)
		if err != nil {
			return "", fmt.Errorf("failed to update pull request #%d: %w", pr.GetNumber(), err)
		}
		return updated.GetHTMLURL(), nil
	}
	pr, _, err := r.client.PullRequests.Create(ctx, r.owner, r.repo, &github.NewPullRequest{
		Title: &title,
		Body:  &body,
		Head:  &head,
		Base:  &base,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create pull request: %w", err)
	}
	return pr.GetHTMLURL(), nil
}

// PRMerged reports whether the release pull request has been merged.
func (r *githubRepository) PRMerged(ctx context.Context, head, base string) (bool, error) {
	prs, _, err := r.client.PullRequests.List(ctx, r.owner, r.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", r.owner, head),
		Base:  base,
		State: "closed",
	})
	if err != nil {
		return false, fmt.Errorf("failed to list pull requests: %w", err)
	}
	for _, pr := range prs {
		if pr.MergedAt != nil {
			return true, nil
		}
	}
	return false, nil
}
