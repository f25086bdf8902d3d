package cmd

import (
	"github.com/spf13/cobra"
)

var (
	initImage string
	initTag   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a version-controlled environment (host, or a container image with --image)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newOrchestrator().Init(initImage, initTag)
	},
}

func init() {
	initCmd.Flags().StringVarP(&initImage, "image", "i", "", "use the specified container image instead of the host")
	initCmd.Flags().StringVarP(&initTag, "tag", "t", "latest", "tag of the specified container image")
	// original_source's InitArgs also carries its own --name; here the root
	// --name persistent flag already selects the environment every verb
	// operates on, so init doesn't redeclare it.
}
