package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orca/internal/runtime/child"
)

// childInitCmd is never invoked by a user directly; the parent initializer
// re-execs this same binary as "orca __child_init" after cloning it into a
// fresh set of namespaces (see internal/runtime/parent.Clone). It is hidden
// from --help for the same reason the teacher's init() PARENT_STAGE/
// CHILD_STAGE dispatch never appears in its own --help text.
var childInitCmd = &cobra.Command{
	Use:    "__child_init",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := child.Run(); err != nil {
			// The child cannot return to user code past this point; the
			// parent's controlling terminal is the only place left to
			// report the failure before exiting.
			fmt.Fprintf(os.Stderr, "orca: child initializer failed: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}
