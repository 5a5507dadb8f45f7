// Package cli implements the quixabot command line.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/quixabot/quixabot/internal/cli.version=1.2.3"
	version = "1.0.0"
	logo    = "\n" +
		"             _           _           _\n" +
		"   __ _ _   _(_)_  ____ _| |__   ___ | |_\n" +
		"  / _` | | | | \\ \\/ / _` | '_ \\ / _ \\| __|\n" +
		" | (_| | |_| | |>  < (_| | |_) | (_) | |_\n" +
		"  \\__, |\\__,_|_/_/\\_\\__,_|_.__/ \\___/ \\__|\n" +
		"     |_|\n"
)

var rootCmd = &cobra.Command{
	Use:   "quixabot",
	Short: "Quixabot - assistente virtual da UFC Quixadá",
	Long:  color.CyanString(logo) + "\nBackend do assistente virtual da UFC Campus Quixadá.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quixabot %s\n", version)
	},
}
