// Package main is the entry point for the clambake CLI.
package main

import (
	"fmt"
	"os"

	"clambake/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "clambake: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "clambake: %v\n", err)
		os.Exit(1)
	}
}
