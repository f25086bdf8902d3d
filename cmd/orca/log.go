package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"orca/internal/vcs"
)

var logAll bool

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o := newOrchestrator()
		if logAll {
			branches, err := o.AllBranches()
			if err != nil {
				return err
			}
			for _, b := range branches {
				fmt.Println(b)
			}
			return nil
		}

		commits, err := o.Log()
		if err != nil {
			if errors.Is(err, vcs.ErrCommitNotFound) {
				return errors.New("Current branch does not have any commits")
			}
			return err
		}
		for _, c := range commits {
			fmt.Printf("commit: %s\n", c.ID)
			fmt.Printf("  date: %s\n", c.Date)
			if c.Message != nil {
				fmt.Printf("  message: %s\n", *c.Message)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	logCmd.Flags().BoolVarP(&logAll, "all", "a", false, "show all branches instead of commit history")
}
