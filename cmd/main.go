// Package main implements the taskd server binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "taskd",
	Short:         "Per-user task tracking API",
	SilenceUsage:  true,
	SilenceErrors: true,
}
