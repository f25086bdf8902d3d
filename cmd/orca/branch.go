package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	branchDelete bool
	branchAll    bool
)

var branchCmd = &cobra.Command{
	Use:   "branch [name]",
	Short: "List, create, or delete branches",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o := newOrchestrator()

		if branchAll {
			branches, err := o.AllBranches()
			if err != nil {
				return err
			}
			for _, b := range branches {
				fmt.Println(b)
			}
			return nil
		}

		if branchDelete {
			if len(args) != 1 {
				return fmt.Errorf("branch --delete requires a branch name")
			}
			return o.DeleteBranch(args[0])
		}

		if len(args) == 1 {
			return o.CreateBranch(args[0])
		}

		name, attached, err := o.CurrentBranch()
		if err != nil {
			return err
		}
		if attached {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	branchCmd.Flags().BoolVarP(&branchDelete, "delete", "d", false, "delete the named branch")
	branchCmd.Flags().BoolVarP(&branchAll, "all", "a", false, "show all branches")
	branchCmd.MarkFlagsMutuallyExclusive("delete", "all")
}
