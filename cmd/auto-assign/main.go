// Package main is the entry point for the auto-assign CLI.
package main

import (
	"os"

	"github.com/similigh/auto-assign/cmd/auto-assign/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
