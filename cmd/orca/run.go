package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var runNetns bool

var runCmd = &cobra.Command{
	Use:   "run [command] [args...]",
	Short: "Run a command inside the version-controlled environment",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		command := args
		if len(command) == 0 {
			command = []string{defaultShell()}
		}

		execPath, err := os.Executable()
		if err != nil {
			return err
		}

		return newOrchestrator().Run(context.Background(), execPath, runNetns, command)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNetns, "netns", false, "isolate the container in its own network namespace (loopback only)")
	// The container's own command may carry flags of its own (e.g. "run ls
	// -la"); stop orca from trying to parse those as its own once the first
	// positional argument is seen.
	runCmd.Flags().SetInterspersed(false)
}

func defaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}
