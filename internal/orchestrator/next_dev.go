package orchestrator

import (
	"context"
	"fmt"

	"github.com/NikoAndroid/Splitties/internal/domain"
	"github.com/NikoAndroid/Splitties/internal/usecase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExecuteNextDev runs only the next-development-version steps of the
// workflow, for re-entering snapshot development after a release that was
// finished by hand.
func (o *ReleaseOrchestrator) ExecuteNextDev(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultWorkflowTimeout)
	defer cancel()
	release, err := o.journal.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("cannot start run: %w", err)
	}
	defer release()
	run := domain.NewReleaseRun(uuid.New().String())
	o.logger.Info("next-dev-version run started", zap.String("session_id", run.SessionID))
	rel := &domain.Release{}
	steps := []struct {
		name string
		fn   func(context.Context, *domain.Release) error
	}{
		{"read-released-version", o.readReleasedVersion},
		{"prepare-next-version", o.prepareNextDevVersion},
		{"final-push", o.finalCommitAndPush},
	}
	var runErr error
	for _, step := range steps {
		if runErr = o.runStep(ctx, run, rel, step.name, step.fn); runErr != nil {
			break
		}
	}
	run.Finish(runErr)
	o.saveRun(ctx, run)
	if runErr == nil {
		o.promptSvc.Say("Next development version is %s.", rel.NextVersion)
	}
	return runErr
}

// readReleasedVersion reads the version file and requires a non-snapshot
// version, the state left behind by a finished release.
func (o *ReleaseOrchestrator) readReleasedVersion(ctx context.Context, rel *domain.Release) error {
	uc := &usecase.ReadVersionUseCase{
		Fs:         o.fsRepo,
		Path:       o.cfg.VersionFile,
		LinePrefix: o.cfg.VersionLinePrefix,
	}
	current, err := uc.Execute(ctx)
	if err != nil {
		return err
	}
	if domain.IsSnapshot(current, o.cfg.SnapshotSuffix) {
		return fmt.Errorf("current version %s is already a snapshot, nothing to prepare", current)
	}
	rel.Version = current
	o.promptSvc.Say("Released version: %s", current)
	return nil
}
