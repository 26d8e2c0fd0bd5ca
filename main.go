// Package main is the entry point for the logsequence CLI.
package main

import (
	"os"

	"logsequence/cmd"
)

func main() {
	root := cmd.NewRootCmd()
	if err := root.Execute(); err != nil {
		cmd.PrintError(err)
		os.Exit(cmd.ExitCode(err))
	}
}
