// Package main provides the entry point for the gitdistance CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kurobon/gitdistance/cmd/gitdistance/commands"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	global := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "gitdistance",
		Short: "Measure commit distances in a git history",
		Long: `gitdistance counts the commits between a revision and an ancestor.

Commands:
  distance  Distance from a revision to a target commit
  describe  Nearest tag and its distance
  serve     HTTP API for both queries`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	global.Register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(commands.NewDistanceCommand(global))
	rootCmd.AddCommand(commands.NewDescribeCommand(global))
	rootCmd.AddCommand(commands.NewServeCommand(global))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitdistance %s (commit: %s)\n", version, commit)
		},
	}
}
