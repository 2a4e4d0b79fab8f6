package main

import (
	"fmt"
	"path/filepath"

	"github.com/NicabarNimble/go-gitrelease/internal/config"
	"github.com/NicabarNimble/go-gitrelease/internal/gitx"
	"github.com/spf13/cobra"
)

type buildNeededOptions struct {
	dir        string
	configFile string
}

func newBuildNeededCmd() *cobra.Command {
	opts := &buildNeededOptions{}

	cmd := &cobra.Command{
		Use:   "build-needed",
		Short: "Report whether the last commit touched the release files",
		Long: `Prints "true" when the commit at HEAD modified the version file, the
build counter or the extra-args file, and "false" otherwise. Read-only;
intended for build pipelines that react to release commits.

The answer is carried on stdout only: the exit status is zero for both
"true" and "false", and non-zero exits mean the query itself failed.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildNeeded(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "C", ".", "Repository directory")
	cmd.Flags().StringVar(&opts.configFile, "config", ".gitrelease.json", "Configuration file path, relative to the repository")

	return cmd
}

func runBuildNeeded(cmd *cobra.Command, opts *buildNeededOptions) error {
	cfg, err := config.LoadConfig(filepath.Join(opts.dir, opts.configFile))
	if err != nil {
		return err
	}

	repo := gitx.NewShell(opts.dir)
	return reportBuildNeeded(cmd, repo, cfg)
}

func reportBuildNeeded(cmd *cobra.Command, repo gitx.Repo, cfg *config.ReleaseConfig) error {
	paths, err := repo.ChangedPaths(cmd.Context(), "HEAD")
	if err != nil {
		return err
	}

	scalars := map[string]bool{cfg.VersionFile: true}
	if cfg.BuildFile != "" {
		scalars[cfg.BuildFile] = true
	}
	if cfg.ArgsFile != "" {
		scalars[cfg.ArgsFile] = true
	}

	needed := false
	for _, p := range paths {
		if scalars[p] {
			needed = true
			break
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%t\n", needed)
	return nil
}
