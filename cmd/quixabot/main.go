// Package main is the entry point for the quixabot server CLI.
package main

import (
	"os"

	"github.com/quixabot/quixabot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
