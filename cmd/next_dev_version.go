package cmd

import (
	"github.com/NikoAndroid/Splitties/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewNextDevVersionCmd creates the next-dev-version command
func NewNextDevVersionCmd(orch *orchestrator.ReleaseOrchestrator) *cobra.Command {
	return &cobra.Command{
		Use:   "next-dev-version",
		Short: "Switch the version file back to a snapshot development version",
		Long: `Switch the version file back to a snapshot development version.

Use this after a release that was finished by hand: it asks for the next
version, writes it back with the snapshot suffix, commits and pushes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return orch.ExecuteNextDev(cmd.Context())
		},
	}
}
