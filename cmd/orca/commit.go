package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commitMessage string

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the current uncommitted changes as a new commit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var message *string
		if cmd.Flags().Changed("message") {
			message = &commitMessage
		}
		c, err := newOrchestrator().Commit(message)
		if err != nil {
			return err
		}
		fmt.Println(c.ID)
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
}
