package cmd

import (
	"fmt"

	"github.com/NikoAndroid/Splitties/internal/usecase"
	"github.com/spf13/cobra"
)

// NewCurrentVersionCmd creates the current-version command
func NewCurrentVersionCmd(c *container) *cobra.Command {
	return &cobra.Command{
		Use:   "current-version",
		Short: "Print the version declared in the version file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := &usecase.ReadVersionUseCase{
				Fs:         c.fsRepo,
				Path:       c.cfg.VersionFile,
				LinePrefix: c.cfg.VersionLinePrefix,
			}
			version, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
