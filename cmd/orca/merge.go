package cmd

import "github.com/spf13/cobra"

var mergeCmd = &cobra.Command{
	Use:   "merge <target>",
	Short: "Join two branches together",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newOrchestrator().Merge(args[0])
	},
}
