package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "splitties-release",
	Short: "A CLI tool for publishing Splitties releases",
	Long:  `splitties-release walks an operator through the whole release process, from version selection to publishing and branch sync.`,
}

func Execute() error {
	return rootCmd.Execute()
}
