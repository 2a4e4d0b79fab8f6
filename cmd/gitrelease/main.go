package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	opts := &releaseOptions{}

	cmd := &cobra.Command{
		Use:   "gitrelease",
		Short: "Version and release automation over a git repository",
		Long: `gitrelease advances a persisted version scalar, creates release tags
and stabilization branches, and publishes them through a checkpointed
sequence of commits and pushes. A rejected push either rolls the
repository back to its pre-invocation state or leaves it in a named
reconciliation state with nothing lost.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "C", ".", "Repository directory")
	cmd.Flags().StringVar(&opts.configFile, "config", ".gitrelease.json", "Configuration file path, relative to the repository")
	cmd.Flags().BoolVar(&opts.tag, "tag", false, "Tag the current version line instead of branching")
	cmd.Flags().BoolVar(&opts.branch, "branch", false, "Create a stabilization branch and switch to it")
	cmd.Flags().BoolVar(&opts.branch, "branch1", false, "Alias of --branch")
	cmd.Flags().BoolVar(&opts.branch2, "branch2", false, "Create a stabilization branch but stay on the current one")
	cmd.Flags().BoolVar(&opts.buildOnly, "build-only", false, "Advance and tag only the build counter")
	cmd.Flags().BoolVar(&opts.noPush, "no-push", false, "Perform all local steps but skip every push")
	cmd.MarkFlagsMutuallyExclusive("tag", "branch", "branch1", "branch2", "build-only")

	// Add subcommands
	cmd.AddCommand(
		newBuildNeededCmd(),
		newBlessCmd(),
	)

	return cmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
