package cmd

import "github.com/spf13/cobra"

var checkoutCmd = &cobra.Command{
	Use:   "checkout <query>",
	Short: "Switch to a branch or commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newOrchestrator().Checkout(args[0])
	},
}
