package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/NikoAndroid/Splitties/internal/config"
	"github.com/NikoAndroid/Splitties/internal/domain"
	"github.com/NikoAndroid/Splitties/internal/repository"
	"github.com/NikoAndroid/Splitties/internal/service"
	"github.com/NikoAndroid/Splitties/internal/usecase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReleaseConfig contains configuration for a single release run.
type ReleaseConfig struct {
	// DryRun stops after the confirmation gate: all validations run, no
	// file is edited and no command is executed.
	DryRun bool
}

// ReleaseOrchestrator drives the operator through the release workflow: a
// fixed sequence of validations, confirmation gates, version-file edits and
// external commands. Any failure or declined gate terminates the run; a new
// run starts from the beginning.
type ReleaseOrchestrator struct {
	cfg        *config.Config
	workDir    string
	gitRepo    repository.GitRepository
	githubRepo repository.GithubRepository
	fsRepo     repository.FileSystemRepository
	gradleSvc  service.GradleService
	promptSvc  service.PromptService
	journal    repository.RunJournal
	logger     *zap.Logger
}

// NewReleaseOrchestrator creates a new release orchestrator.
func NewReleaseOrchestrator(
	cfg *config.Config,
	workDir string,
	gitRepo repository.GitRepository,
	githubRepo repository.GithubRepository,
	fsRepo repository.FileSystemRepository,
	gradleSvc service.GradleService,
	promptSvc service.PromptService,
	journal repository.RunJournal,
	logger *zap.Logger,
) *ReleaseOrchestrator {
	return &ReleaseOrchestrator{
		cfg:        cfg,
		workDir:    workDir,
		gitRepo:    gitRepo,
		githubRepo: githubRepo,
		fsRepo:     fsRepo,
		gradleSvc:  gradleSvc,
		promptSvc:  promptSvc,
		journal:    journal,
		logger:     logger,
	}
}

// Execute runs the complete release workflow.
func (o *ReleaseOrchestrator) Execute(ctx context.Context, rcfg ReleaseConfig) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	release, err := o.journal.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("cannot start release run: %w", err)
	}
	defer release()
	run := domain.NewReleaseRun(uuid.New().String())
	o.logger.Info("release run started", zap.String("session_id", run.SessionID))
	rel := &domain.Release{}
	runErr := o.executeSteps(ctx, rcfg, run, rel)
	run.Finish(runErr)
	o.saveRun(ctx, run)
	return runErr
}

func (o *ReleaseOrchestrator) executeSteps(
	ctx context.Context,
	rcfg ReleaseConfig,
	run *domain.ReleaseRun,
	rel *domain.Release,
) error {
	steps := []struct {
		name string
		fn   func(context.Context, *domain.Release) error
	}{
		{"precondition-check", o.ensureDevelopBranch},
		{"read-version", o.readCurrentVersion},
		{"prompt-new-version", o.promptNewVersion},
		{"tag-uniqueness", o.ensureTagUnique},
		{"confirm-release", o.confirmRelease},
	}
	if !rcfg.DryRun {
		steps = append(steps, []struct {
			name string
			fn   func(context.Context, *domain.Release) error
		}{
			{"update-docs", o.awaitDocumentation},
			{"commit-and-tag", o.commitAndTag},
			{"publish", o.publish},
			{"push-and-pr", o.pushChoreography},
			{"sync-branches", o.syncBranches},
			{"prepare-next-version", o.prepareNextDevVersion},
			{"final-push", o.finalCommitAndPush},
		}...)
	}
	for _, step := range steps {
		if err := o.runStep(ctx, run, rel, step.name, step.fn); err != nil {
			return err
		}
	}
	if rcfg.DryRun {
		o.promptSvc.Say("Dry-run complete: version %s is ready to release (nothing was changed).", rel.Version)
		return nil
	}
	o.promptSvc.Say("Release %s done. Next development version is %s.", rel.Version, rel.NextVersion)
	return nil
}

func (o *ReleaseOrchestrator) runStep(
	ctx context.Context,
	run *domain.ReleaseRun,
	rel *domain.Release,
	name string,
	fn func(context.Context, *domain.Release) error,
) error {
	run.StepStarted(name)
	run.Version = rel.Version
	o.saveRun(ctx, run)
	if err := fn(ctx, rel); err != nil {
		run.StepFailed(name, err)
		o.saveRun(ctx, run)
		if domain.IsCancelled(err) {
			return err
		}
		return fmt.Errorf("step %s failed: %w", name, err)
	}
	run.StepCompleted(name)
	run.Version = rel.Version
	o.saveRun(ctx, run)
	return nil
}

// saveRun persists the run record. Journal failures are warnings only: the
// audit trail must never change the workflow outcome.
func (o *ReleaseOrchestrator) saveRun(ctx context.Context, run *domain.ReleaseRun) {
	if err := o.journal.Save(ctx, run); err != nil {
		o.logger.Warn("failed to save run journal", zap.Error(err))
	}
}

// Step 1: the release must start from the develop branch.
func (o *ReleaseOrchestrator) ensureDevelopBranch(ctx context.Context, _ *domain.Release) error {
	branch, err := o.gitRepo.CurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("failed to determine current branch: %w", err)
	}
	if branch != o.cfg.DevelopBranch {
		return fmt.Errorf("release must start from branch %s, but HEAD is on %s", o.cfg.DevelopBranch, branch)
	}
	return nil
}

// Step 2: read the version file; only snapshot versions may be promoted.
func (o *ReleaseOrchestrator) readCurrentVersion(ctx context.Context, rel *domain.Release) error {
	uc := &usecase.ReadVersionUseCase{
		Fs:         o.fsRepo,
		Path:       o.cfg.VersionFile,
		LinePrefix: o.cfg.VersionLinePrefix,
	}
	current, err := uc.Execute(ctx)
	if err != nil {
		return err
	}
	if !domain.IsSnapshot(current, o.cfg.SnapshotSuffix) {
		return fmt.Errorf("current version %s is not a %s version, only snapshots can be released",
			current, o.cfg.SnapshotSuffix)
	}
	rel.CurrentVersion = current
	o.promptSvc.Say("Current version: %s", current)
	return nil
}

// Step 3: ask the operator for the version to release. A single invalid
// input aborts the run.
func (o *ReleaseOrchestrator) promptNewVersion(ctx context.Context, rel *domain.Release) error {
	answer, err := o.promptSvc.Ask(ctx, "New version:")
	if err != nil {
		return err
	}
	if err := domain.ValidateNewVersion(answer, o.cfg.SnapshotSuffix); err != nil {
		return err
	}
	rel.Version = answer
	rel.TagName = domain.TagName(o.cfg.TagPrefix, answer)
	return nil
}

// Step 4: the release tag must not collide with an existing tag.
func (o *ReleaseOrchestrator) ensureTagUnique(ctx context.Context, rel *domain.Release) error {
	uc := &usecase.CheckTagUniqueUseCase{GitRepo: o.gitRepo}
	tags, err := uc.Execute(ctx, rel.TagName)
	if latest := domain.LatestReleasedVersion(tags); latest != "" {
		o.promptSvc.Say("Latest released tag: %s", latest)
	}
	return err
}

// Step 5: the confirmation gate before anything is touched.
func (o *ReleaseOrchestrator) confirmRelease(ctx context.Context, rel *domain.Release) error {
	return o.promptSvc.Confirm(ctx, fmt.Sprintf("Release version %s (tag %s)?", rel.Version, rel.TagName))
}

// Step 6: release notes and README updates stay manual.
func (o *ReleaseOrchestrator) awaitDocumentation(ctx context.Context, rel *domain.Release) error {
	o.promptSvc.Say("Update the release notes and README for version %s now.", rel.Version)
	return o.promptSvc.Confirm(ctx, "Documentation updated and committed?")
}

// Step 7: rewrite the version line, commit and create the annotated tag.
func (o *ReleaseOrchestrator) commitAndTag(ctx context.Context, rel *domain.Release) error {
	if err := o.writeVersion(ctx, rel.Version); err != nil {
		return err
	}
	if err := o.gitRepo.AddFiles(ctx, o.cfg.VersionFile); err != nil {
		return err
	}
	if err := o.gitRepo.Commit(ctx, "Version "+rel.Version); err != nil {
		return err
	}
	return o.gitRepo.CreateTag(ctx, rel.TagName, "Release "+rel.Version)
}

// Step 8: clean build and publish, streamed to the operator's terminal.
func (o *ReleaseOrchestrator) publish(ctx context.Context, _ *domain.Release) error {
	return o.gradleSvc.CleanAndPublish(ctx, o.workDir)
}

// Step 9: push and pull-request choreography. Every push is gated on an
// explicit confirmation and the external publication steps stay manual.
func (o *ReleaseOrchestrator) pushChoreography(ctx context.Context, rel *domain.Release) error {
	if err := o.promptSvc.Confirm(ctx, fmt.Sprintf("Push branch %s to %s?", o.cfg.DevelopBranch, o.cfg.Remote)); err != nil {
		return err
	}
	if err := o.gitRepo.PushBranch(ctx, o.cfg.DevelopBranch); err != nil {
		return err
	}
	o.ensureReleasePR(ctx, rel)
	if err := o.promptSvc.Confirm(ctx, "Release pull request opened?"); err != nil {
		return err
	}
	if err := o.promptSvc.Confirm(ctx, "Release published on Maven Central (staging repository closed and released)?"); err != nil {
		return err
	}
	if err := o.promptSvc.Confirm(ctx, fmt.Sprintf("Push tag %s to %s?", rel.TagName, o.cfg.Remote)); err != nil {
		return err
	}
	if err := o.gitRepo.PushTags(ctx); err != nil {
		return err
	}
	o.reportPRMerged(ctx)
	if err := o.promptSvc.Confirm(ctx, "Release pull request merged?"); err != nil {
		return err
	}
	return o.promptSvc.Confirm(ctx, "Release published on GitHub?")
}

// ensureReleasePR opens the release PR through the GitHub API when a token
// is configured. Without one the operator opens it by hand, so API failures
// only downgrade to the manual path.
func (o *ReleaseOrchestrator) ensureReleasePR(ctx context.Context, rel *domain.Release) {
	title := fmt.Sprintf("Release %s", rel.Version)
	body := fmt.Sprintf("Merge %s into %s for release %s (tag %s).",
		o.cfg.DevelopBranch, o.cfg.MainBranch, rel.Version, rel.TagName)
	url, err := o.githubRepo.EnsureReleasePR(ctx, o.cfg.DevelopBranch, o.cfg.MainBranch, title, body)
	if err != nil {
		if !errors.Is(err, repository.ErrGithubTokenRequired) {
			o.logger.Warn("failed to open release pull request", zap.Error(err))
		}
		o.promptSvc.Say("Open a pull request from %s into %s.", o.cfg.DevelopBranch, o.cfg.MainBranch)
		return
	}
	o.promptSvc.Say("Release pull request: %s", url)
}

func (o *ReleaseOrchestrator) reportPRMerged(ctx context.Context) {
	merged, err := o.githubRepo.PRMerged(ctx, o.cfg.DevelopBranch, o.cfg.MainBranch)
	if err != nil {
		if !errors.Is(err, repository.ErrGithubTokenRequired) {
			o.logger.Warn("failed to query pull request merge state", zap.Error(err))
		}
		return
	}
	if merged {
		o.promptSvc.Say("GitHub reports the release pull request as merged.")
	} else {
		o.promptSvc.Say("GitHub does not report the release pull request as merged yet.")
	}
}

// Step 10: sync the stable branch back into develop.
func (o *ReleaseOrchestrator) syncBranches(ctx context.Context, _ *domain.Release) error {
	if err := o.gitRepo.CheckoutBranch(ctx, o.cfg.MainBranch); err != nil {
		return err
	}
	if err := o.gitRepo.Pull(ctx, o.cfg.Remote, o.cfg.MainBranch); err != nil {
		return err
	}
	if err := o.gitRepo.CheckoutBranch(ctx, o.cfg.DevelopBranch); err != nil {
		return err
	}
	return o.gitRepo.Merge(ctx, o.cfg.MainBranch)
}

// Step 11: enter the next development iteration. A blank answer reuses the
// just-released version name with the snapshot suffix reapplied.
func (o *ReleaseOrchestrator) prepareNextDevVersion(ctx context.Context, rel *domain.Release) error {
	answer, err := o.promptSvc.Ask(ctx,
		fmt.Sprintf("Next development version (blank to reuse %s):", rel.Version))
	if err != nil {
		return err
	}
	name := rel.Version
	if answer != "" {
		if err := domain.ValidateNewVersion(answer, o.cfg.SnapshotSuffix); err != nil {
			return err
		}
		name = answer
	}
	rel.NextVersion = domain.WithSnapshot(name, o.cfg.SnapshotSuffix)
	return o.writeVersion(ctx, rel.NextVersion)
}

// Step 12: commit the version bump and push after a final gate.
func (o *ReleaseOrchestrator) finalCommitAndPush(ctx context.Context, rel *domain.Release) error {
	if err := o.gitRepo.AddFiles(ctx, o.cfg.VersionFile); err != nil {
		return err
	}
	if err := o.gitRepo.Commit(ctx, "Prepare next development version"); err != nil {
		return err
	}
	if err := o.promptSvc.Confirm(ctx, fmt.Sprintf("Push branch %s to %s?", o.cfg.DevelopBranch, o.cfg.Remote)); err != nil {
		return err
	}
	return o.gitRepo.PushBranch(ctx, o.cfg.DevelopBranch)
}

func (o *ReleaseOrchestrator) writeVersion(ctx context.Context, version string) error {
	uc := &usecase.WriteVersionUseCase{
		Fs:         o.fsRepo,
		Path:       o.cfg.VersionFile,
		LinePrefix: o.cfg.VersionLinePrefix,
	}
	return uc.Execute(ctx, version)
}
