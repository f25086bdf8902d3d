package cmd

import "github.com/spf13/cobra"

var resetCmd = &cobra.Command{
	Use:   "reset <target>",
	Short: "Reset the current branch to the specified commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newOrchestrator().Reset(args[0])
	},
}
