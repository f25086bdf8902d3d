//go:build linux

package main

import (
	"fmt"
	"os"

	"orca/cmd/orca"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
