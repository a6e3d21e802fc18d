package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/NikoAndroid/Splitties/internal/service"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/sethvargo/go-retry"
)

// versionTagRegex matches release tags: a "v" prefix followed by a digit.
var versionTagRegex = regexp.MustCompile(`^v\d`)

// gitRepository is the implementation of the GitRepository interface.
//
// Most operations go through go-git. Pull and merge shell out through the
// command runner because go-git only supports fast-forward merges.

type gitRepository struct {
	repo    *git.Repository
	runner  service.CommandRunner
	workDir string
	token   string
}

// NewGitRepository opens the repository at workDir.
func NewGitRepository(workDir string, runner service.CommandRunner, token string) (GitRepository, error) {
	repo, err := git.PlainOpen(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", workDir, err)
	}
	return &gitRepository{
		repo:    repo,
		runner:  runner,
		workDir: workDir,
		token:   token,
	}, nil
}

// CurrentBranch returns the name of the branch HEAD points at.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash())
	}
	return head.Name().Short(), nil
}

// ListVersionTags returns all v<digit>... tags, sorted as strings.
// Remote tags are fetched first so the uniqueness check sees tags created
// from other machines; the fetch is retried on transient failures and its
// final failure is not fatal since local tags are still usable.
func (r *gitRepository) ListVersionTags(ctx context.Context) ([]string, error) {
	r.fetchRemoteTags(ctx)
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	var tags []string
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if versionTagRegex.MatchString(name) {
			tags = append(tags, name)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *gitRepository) fetchRemoteTags(ctx context.Context) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return
	}
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	//nolint:errcheck // local tags are sufficient when the remote is unreachable
	_ = retry.Do(ctx, backoff, func(retryCtx context.Context) error {
		err := remote.FetchContext(retryCtx, &git.FetchOptions{
			RefSpecs: []gitconfig.RefSpec{
				gitconfig.RefSpec("+refs/tags/*:refs/tags/*"),
			},
			Auth: r.getAuth(),
		})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// AddFiles stages files matching the pattern.
func (r *gitRepository) AddFiles(_ context.Context, pattern string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	err = w.AddGlob(pattern)
	if err != nil && err.Error() != "glob pattern did not match any files" {
		return fmt.Errorf("failed to add files with pattern %s: %w", pattern, err)
	}
	return nil
}

// Commit creates a commit with the given message.
func (r *gitRepository) Commit(_ context.Context, message string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: r.signature(),
	})
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	return nil
}

// CreateTag creates an annotated tag at HEAD.
func (r *gitRepository) CreateTag(_ context.Context, tag, msg string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	_, err = r.repo.CreateTag(tag, head.Hash(), &git.CreateTagOptions{
		Message: msg,
		Tagger:  r.signature(),
	})
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// signature resolves the committer identity from the repository config,
// falling back to a fixed identity when none is configured.
func (r *gitRepository) signature() *object.Signature {
	sig := &object.Signature{
		Name:  "splitties-release",
		Email: "splitties-release@users.noreply.github.com",
		When:  time.Now(),
	}
	cfg, err := r.repo.ConfigScoped(gitconfig.SystemScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}

// CheckoutBranch switches to the specified branch.
func (r *gitRepository) CheckoutBranch(_ context.Context, name string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	err = w.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	})
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", name, err)
	}
	return nil
}

// Pull updates the current branch from the remote. Shells out because
// go-git only supports fast-forward pulls.
func (r *gitRepository) Pull(ctx context.Context, remote, branch string) error {
	if _, err := r.runner.Capture(ctx, r.workDir, fmt.Sprintf("git pull %s %s", remote, branch)); err != nil {
		return fmt.Errorf("failed to pull %s from %s: %w", branch, remote, err)
	}
	return nil
}

// Merge merges the named branch into the current one. Shells out because
// go-git has no general merge support.
func (r *gitRepository) Merge(ctx context.Context, branch string) error {
	if _, err := r.runner.Capture(ctx, r.workDir, "git merge "+branch); err != nil {
		return fmt.Errorf("failed to merge %s: %w", branch, err)
	}
	return nil
}

// PushBranch pushes a branch to the remote.
func (r *gitRepository) PushBranch(ctx context.Context, name string) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RefSpecs: []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", name, name)),
		},
		Auth: r.getAuth(),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push branch %s: %w", name, err)
	}
	return nil
}

// PushTags pushes all tags to the remote.
func (r *gitRepository) PushTags(ctx context.Context) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RefSpecs: []gitconfig.RefSpec{
			gitconfig.RefSpec("refs/tags/*:refs/tags/*"),
		},
		Auth: r.getAuth(),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push tags: %w", err)
	}
	return nil
}

// getAuth returns token authentication when a token is configured.
func (r *gitRepository) getAuth() *http.BasicAuth {
	if r.token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: r.token,
	}
}
