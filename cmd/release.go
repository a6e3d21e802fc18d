package cmd

import (
	"github.com/NikoAndroid/Splitties/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewReleaseCmd creates the release command
func NewReleaseCmd(orch *orchestrator.ReleaseOrchestrator) *cobra.Command {
	var releaseDryRun bool
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run the interactive release workflow",
		Long: `Run the interactive release workflow from the development branch.

The workflow walks through every step in order:
- Verifies the checkout is on the development branch
- Reads the current snapshot version from the version file
- Asks for the release version and checks the tag is unused
- Updates the version file, commits and tags
- Publishes the artifacts
- Pushes, waits for the release pull request, and syncs branches
- Re-enters the next snapshot development version

Any failed step or declined confirmation stops the run immediately.
A new run always starts from the beginning.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return orch.Execute(cmd.Context(), orchestrator.ReleaseConfig{
				DryRun: releaseDryRun,
			})
		},
	}

	cmd.Flags().BoolVar(&releaseDryRun, "dry-run", false, "Stop after the validation gates without editing files or running commands")
	return cmd
}
