package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/NikoAndroid/Splitties/internal/config"
	"github.com/NikoAndroid/Splitties/internal/domain"
	"github.com/NikoAndroid/Splitties/internal/repository"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const versionsContent = `package config

object ProjectVersions {
    const val androidSdk = "34"
    const val thisLibrary = "3.0.0-SNAPSHOT"
}
`

type fixture struct {
	cfg     *config.Config
	fs      afero.Fs
	gitRepo *mockGitRepository
	github  *mockGithubRepository
	gradle  *mockGradleService
	prompt  *mockPromptService
	journal *fakeRunJournal
	orch    *ReleaseOrchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.DefaultConfig()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, cfg.VersionFile, []byte(versionsContent), 0o644))
	f := &fixture{
		cfg:     cfg,
		fs:      fs,
		gitRepo: new(mockGitRepository),
		github:  new(mockGithubRepository),
		gradle:  new(mockGradleService),
		prompt:  new(mockPromptService),
		journal: &fakeRunJournal{},
	}
	f.orch = NewReleaseOrchestrator(
		cfg, ".", f.gitRepo, f.github, f.fs, f.gradle, f.prompt, f.journal, zap.NewNop(),
	)
	return f
}

func (f *fixture) versionFileContent(t *testing.T) string {
	t.Helper()
	data, err := afero.ReadFile(f.fs, f.cfg.VersionFile)
	require.NoError(t, err)
	return string(data)
}

func TestReleaseOrchestrator_Execute(t *testing.T) {
	t.Run("Should run the full workflow for a valid release", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		f.gitRepo.On("CurrentBranch", mock.Anything).Return("develop", nil).Once()
		f.prompt.On("Ask", mock.Anything, "New version:").Return("3.0.0", nil).Once()
		f.gitRepo.On("ListVersionTags", mock.Anything).Return([]string{"v2.0.0", "v2.1.0"}, nil).Once()
		f.prompt.On("Confirm", mock.Anything, mock.Anything).Return(nil)

		f.gitRepo.On("AddFiles", mock.Anything, f.cfg.VersionFile).Return(nil).Twice()
		f.gitRepo.On("Commit", mock.Anything, "Version 3.0.0").Return(nil).Once()
		f.gitRepo.On("CreateTag", mock.Anything, "v3.0.0", "Release 3.0.0").Return(nil).Once()
		f.gradle.On("CleanAndPublish", mock.Anything, ".").Return(nil).Once()

		f.gitRepo.On("PushBranch", mock.Anything, "develop").Return(nil).Twice()
		f.github.On("EnsureReleasePR", mock.Anything, "develop", "main", "Release 3.0.0", mock.Anything).
			Return("https://github.com/NikoAndroid/Splitties/pull/42", nil).Once()
		f.gitRepo.On("PushTags", mock.Anything).Return(nil).Once()
		f.github.On("PRMerged", mock.Anything, "develop", "main").Return(true, nil).Once()

		f.gitRepo.On("CheckoutBranch", mock.Anything, "main").Return(nil).Once()
		f.gitRepo.On("Pull", mock.Anything, "origin", "main").Return(nil).Once()
		f.gitRepo.On("CheckoutBranch", mock.Anything, "develop").Return(nil).Once()
		f.gitRepo.On("Merge", mock.Anything, "main").Return(nil).Once()

		f.prompt.On("Ask", mock.Anything, "Next development version (blank to reuse 3.0.0):").
			Return("", nil).Once()
		f.gitRepo.On("Commit", mock.Anything, "Prepare next development version").Return(nil).Once()

		err := f.orch.Execute(ctx, ReleaseConfig{})
		require.NoError(t, err)

		f.gitRepo.AssertExpectations(t)
		f.github.AssertExpectations(t)
		f.gradle.AssertExpectations(t)
		f.prompt.AssertExpectations(t)

		content := f.versionFileContent(t)
		assert.Contains(t, content, `const val thisLibrary = "3.0.0-SNAPSHOT"`)
		assert.Contains(t, content, `const val androidSdk = "34"`)
		assert.Equal(t, domain.RunStatusCompleted, f.journal.lastStatus())
		assert.Contains(t, strings.Join(f.prompt.messages, "\n"),
			"https://github.com/NikoAndroid/Splitties/pull/42")
	})

	t.Run("Should abort before any prompt when not on the develop branch", func(t *testing.T) {
		f := newFixture(t)
		f.gitRepo.On("CurrentBranch", mock.Anything).Return("main", nil).Once()

		err := f.orch.Execute(context.Background(), ReleaseConfig{})
		require.Error(t, err)
		assert.False(t, domain.IsCancelled(err))
		f.prompt.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
		f.prompt.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
		assert.Equal(t, versionsContent, f.versionFileContent(t))
		assert.Equal(t, domain.RunStatusFailed, f.journal.lastStatus())
	})

	t.Run("Should abort when the current version is not a snapshot", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, afero.WriteFile(f.fs, f.cfg.VersionFile,
			[]byte("const val thisLibrary = \"3.0.0\"\n"), 0o644))
		f.gitRepo.On("CurrentBranch", mock.Anything).Return("develop", nil).Once()

		err := f.orch.Execute(context.Background(), ReleaseConfig{})
		require.Error(t, err)
		f.prompt.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
	})

	t.Run("Should abort on a single invalid version input", func(t *testing.T) {
		f := newFixture(t)
		f.gitRepo.On("CurrentBranch", mock.Anything).Return("develop", nil).Once()
		f.prompt.On("Ask", mock.Anything, "New version:").Return("v3.0.0", nil).Once()

		err := f.orch.Execute(context.Background(), ReleaseConfig{})
		require.Error(t, err)
		f.gitRepo.AssertNotCalled(t, "ListVersionTags", mock.Anything)
		assert.Equal(t, versionsContent, f.versionFileContent(t))
	})

	t.Run("Should abort when the proposed tag already exists", func(t *testing.T) {
		f := newFixture(t)
		f.gitRepo.On("CurrentBranch", mock.Anything).Return("develop", nil).Once()
		f.prompt.On("Ask", mock.Anything, "New version:").Return("2.1.0", nil).Once()
		f.gitRepo.On("ListVersionTags", mock.Anything).Return([]string{"v2.0.0", "v2.1.0"}, nil).Once()

		err := f.orch.Execute(context.Background(), ReleaseConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "v2.1.0")
		f.prompt.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	})

	t.Run("Should cancel when the release confirmation is declined", func(t *testing.T) {
		f := newFixture(t)
		f.gitRepo.On("CurrentBranch", mock.Anything).Return("develop", nil).Once()
		f.prompt.On("Ask", mock.Anything, "New version:").Return("3.0.0", nil).Once()
		f.gitRepo.On("ListVersionTags", mock.Anything).Return([]string{"v2.0.0"}, nil).Once()
		f.prompt.On("Confirm", mock.Anything, "Release version 3.0.0 (tag v3.0.0)?").
			Return(domain.ErrCancelled).Once()

		err := f.orch.Execute(context.Background(), ReleaseConfig{})
		require.Error(t, err)
		assert.True(t, domain.IsCancelled(err))
		f.gitRepo.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
		assert.Equal(t, versionsContent, f.versionFileContent(t))
		assert.Equal(t, domain.RunStatusCancelled, f.journal.lastStatus())
	})

	t.Run("Should stop after validations in dry-run mode", func(t *testing.T) {
		f := newFixture(t)
		f.gitRepo.On("CurrentBranch", mock.Anything).Return("develop", nil).Once()
		f.prompt.On("Ask", mock.Anything, "New version:").Return("3.0.0", nil).Once()
		f.gitRepo.On("ListVersionTags", mock.Anything).Return([]string{"v2.0.0"}, nil).Once()
		f.prompt.On("Confirm", mock.Anything, "Release version 3.0.0 (tag v3.0.0)?").Return(nil).Once()

		err := f.orch.Execute(context.Background(), ReleaseConfig{DryRun: true})
		require.NoError(t, err)
		f.gitRepo.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
		f.gradle.AssertNotCalled(t, "CleanAndPublish", mock.Anything, mock.Anything)
		assert.Equal(t, versionsContent, f.versionFileContent(t))
		assert.Contains(t, strings.Join(f.prompt.messages, "\n"), "Dry-run complete")
	})

	t.Run("Should fail the run when publishing fails", func(t *testing.T) {
		f := newFixture(t)
		f.gitRepo.On("CurrentBranch", mock.Anything).Return("develop", nil).Once()
		f.prompt.On("Ask", mock.Anything, "New version:").Return("3.0.0", nil).Once()
		f.gitRepo.On("ListVersionTags", mock.Anything).Return([]string{"v2.0.0"}, nil).Once()
		f.prompt.On("Confirm", mock.Anything, mock.Anything).Return(nil)
		f.gitRepo.On("AddFiles", mock.Anything, f.cfg.VersionFile).Return(nil).Once()
		f.gitRepo.On("Commit", mock.Anything, "Version 3.0.0").Return(nil).Once()
		f.gitRepo.On("CreateTag", mock.Anything, "v3.0.0", "Release 3.0.0").Return(nil).Once()
		f.gradle.On("CleanAndPublish", mock.Anything, ".").Return(assert.AnError).Once()

		err := f.orch.Execute(context.Background(), ReleaseConfig{})
		require.Error(t, err)
		assert.False(t, domain.IsCancelled(err))
		f.gitRepo.AssertNotCalled(t, "PushBranch", mock.Anything, mock.Anything)
		assert.Equal(t, domain.RunStatusFailed, f.journal.lastStatus())
	})

	t.Run("Should fall back to manual PR handling without a GitHub token", func(t *testing.T) {
		f := newFixture(t)
		noop := repository.NewGithubNoopRepository("NikoAndroid", "Splitties")
		f.orch = NewReleaseOrchestrator(
			f.cfg, ".", f.gitRepo, noop, f.fs, f.gradle, f.prompt, f.journal, zap.NewNop(),
		)
		f.gitRepo.On("CurrentBranch", mock.Anything).Return("develop", nil).Once()
		f.prompt.On("Ask", mock.Anything, "New version:").Return("3.0.0", nil).Once()
		f.gitRepo.On("ListVersionTags", mock.Anything).Return([]string{"v2.0.0"}, nil).Once()
		f.prompt.On("Confirm", mock.Anything, mock.Anything).Return(nil)
		f.gitRepo.On("AddFiles", mock.Anything, f.cfg.VersionFile).Return(nil).Twice()
		f.gitRepo.On("Commit", mock.Anything, "Version 3.0.0").Return(nil).Once()
		f.gitRepo.On("CreateTag", mock.Anything, "v3.0.0", "Release 3.0.0").Return(nil).Once()
		f.gradle.On("CleanAndPublish", mock.Anything, ".").Return(nil).Once()
		f.gitRepo.On("PushBranch", mock.Anything, "develop").Return(nil).Twice()
		f.gitRepo.On("PushTags", mock.Anything).Return(nil).Once()
		f.gitRepo.On("CheckoutBranch", mock.Anything, "main").Return(nil).Once()
		f.gitRepo.On("Pull", mock.Anything, "origin", "main").Return(nil).Once()
		f.gitRepo.On("CheckoutBranch", mock.Anything, "develop").Return(nil).Once()
		f.gitRepo.On("Merge", mock.Anything, "main").Return(nil).Once()
		f.prompt.On("Ask", mock.Anything, "Next development version (blank to reuse 3.0.0):").
			Return("3.1.0", nil).Once()
		f.gitRepo.On("Commit", mock.Anything, "Prepare next development version").Return(nil).Once()

		err := f.orch.Execute(context.Background(), ReleaseConfig{})
		require.NoError(t, err)
		assert.Contains(t, strings.Join(f.prompt.messages, "\n"),
			"Open a pull request from develop into main.")
		assert.Contains(t, f.versionFileContent(t), `const val thisLibrary = "3.1.0-SNAPSHOT"`)
	})

	t.Run("Should refuse to start when another run holds the lock", func(t *testing.T) {
		f := newFixture(t)
		f.journal.acquireErr = assert.AnError

		err := f.orch.Execute(context.Background(), ReleaseConfig{})
		require.Error(t, err)
		f.gitRepo.AssertNotCalled(t, "CurrentBranch", mock.Anything)
	})
}

func TestReleaseOrchestrator_ExecuteNextDev(t *testing.T) {
	t.Run("Should prepare the next development version standalone", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, afero.WriteFile(f.fs, f.cfg.VersionFile,
			[]byte("const val thisLibrary = \"3.0.0\"\n"), 0o644))
		f.prompt.On("Ask", mock.Anything, "Next development version (blank to reuse 3.0.0):").
			Return("", nil).Once()
		f.gitRepo.On("AddFiles", mock.Anything, f.cfg.VersionFile).Return(nil).Once()
		f.gitRepo.On("Commit", mock.Anything, "Prepare next development version").Return(nil).Once()
		f.prompt.On("Confirm", mock.Anything, "Push branch develop to origin?").Return(nil).Once()
		f.gitRepo.On("PushBranch", mock.Anything, "develop").Return(nil).Once()

		err := f.orch.ExecuteNextDev(context.Background())
		require.NoError(t, err)
		assert.Contains(t, f.versionFileContent(t), `const val thisLibrary = "3.0.0-SNAPSHOT"`)
	})
	t.Run("Should refuse when the version is already a snapshot", func(t *testing.T) {
		f := newFixture(t)
		err := f.orch.ExecuteNextDev(context.Background())
		require.Error(t, err)
		f.prompt.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
	})
}
