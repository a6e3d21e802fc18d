package orchestrator

import (
	"context"
	"fmt"

	"github.com/NikoAndroid/Splitties/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock for GitRepository - implements ALL methods from the interface
type mockGitRepository struct{ mock.Mock }

func (m *mockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockGitRepository) ListVersionTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if tags := args.Get(0); tags != nil {
		return tags.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockGitRepository) AddFiles(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
func (m *mockGitRepository) Commit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
func (m *mockGitRepository) CreateTag(ctx context.Context, tag, msg string) error {
	args := m.Called(ctx, tag, msg)
	return args.Error(0)
}
func (m *mockGitRepository) CheckoutBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
func (m *mockGitRepository) Pull(ctx context.Context, remote, branch string) error {
	args := m.Called(ctx, remote, branch)
	return args.Error(0)
}
func (m *mockGitRepository) Merge(ctx context.Context, branch string) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}
func (m *mockGitRepository) PushBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
func (m *mockGitRepository) PushTags(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock for GithubRepository
type mockGithubRepository struct{ mock.Mock }

func (m *mockGithubRepository) EnsureReleasePR(ctx context.Context, head, base, title, body string) (string, error) {
	args := m.Called(ctx, head, base, title, body)
	return args.String(0), args.Error(1)
}
func (m *mockGithubRepository) PRMerged(ctx context.Context, head, base string) (bool, error) {
	args := m.Called(ctx, head, base)
	return args.Bool(0), args.Error(1)
}

// Mock for GradleService
type mockGradleService struct{ mock.Mock }

func (m *mockGradleService) CleanAndPublish(ctx context.Context, dir string) error {
	args := m.Called(ctx, dir)
	return args.Error(0)
}

// Mock for PromptService. Say is recorded instead of mocked so tests can
// assert on operator-facing output without expecting every message.
type mockPromptService struct {
	mock.Mock
	messages []string
}

func (m *mockPromptService) Ask(ctx context.Context, label string) (string, error) {
	args := m.Called(ctx, label)
	return args.String(0), args.Error(1)
}
func (m *mockPromptService) Confirm(ctx context.Context, label string) error {
	args := m.Called(ctx, label)
	return args.Error(0)
}
func (m *mockPromptService) Say(format string, args ...any) {
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
}

// Fake run journal keeping saved records in memory.
type fakeRunJournal struct {
	acquireErr error
	saved      []*domain.ReleaseRun
}

func (f *fakeRunJournal) Acquire(_ context.Context) (func(), error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	return func() {}, nil
}

func (f *fakeRunJournal) Save(_ context.Context, run *domain.ReleaseRun) error {
	f.saved = append(f.saved, run)
	return nil
}

func (f *fakeRunJournal) lastStatus() domain.RunStatus {
	if len(f.saved) == 0 {
		return ""
	}
	return f.saved[len(f.saved)-1].Status
}
