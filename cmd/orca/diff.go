package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"orca/internal/orchestrator"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show changes since the last commit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := newOrchestrator().Diff()
		if err != nil {
			return err
		}
		for _, e := range entries {
			sign := "+"
			if e.Status == orchestrator.Deleted {
				sign = "-"
			}
			fmt.Printf("%s %s\n", sign, e.Path)
		}
		return nil
	},
}
