// Package cmd is orca's Cobra command tree: global flags (--list, --name,
// --root), the verb subcommands (init, run, log, commit, branch, merge,
// diff, clean, reset, checkout), and the hidden __child_init subcommand the
// parent re-execs itself as. Grounded on the teacher's cmd/root.go
// (package-level *cobra.Command vars, one file per verb, Execute as the
// single exported entry point) and on orca/src/args.rs in original_source
// for the exact flag names, shorthands, and defaults.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"orca/internal/logging"
	"orca/internal/orchestrator"
)

var (
	listFlag bool
	nameFlag string
	rootFlag string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "orca",
	Short: "A rootless container runtime with a built-in snapshot VCS",
	Long: `orca launches a command inside an isolated Linux environment — either a
guest image pulled from an OCI registry or an overlay atop the host root —
and lets you snapshot, branch, and roll back changes to that environment
across invocations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listFlag {
			return listEnvironments(rootFlag)
		}
		return cmd.Help()
	},
}

func init() {
	home, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(home, ".orca")

	rootCmd.PersistentFlags().BoolVarP(&listFlag, "list", "l", false, "list initialized environments")
	rootCmd.PersistentFlags().StringVarP(&nameFlag, "name", "n", "_default", "use the named environment created by 'init'")
	rootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "r", defaultRoot, "root directory to save data")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(initCmd, runCmd, logCmd, commitCmd, branchCmd, mergeCmd, diffCmd, cleanCmd, resetCmd, checkoutCmd, childInitCmd)
}

// Execute runs the root command; main calls this and turns a non-nil error
// into a nonzero exit status.
func Execute() error {
	return rootCmd.Execute()
}

func newOrchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(rootFlag, nameFlag, logging.New(verbose))
}

func listEnvironments(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("list environments in %q: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			fmt.Println(e.Name())
		}
	}
	return nil
}
