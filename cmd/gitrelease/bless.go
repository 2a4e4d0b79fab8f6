package main

import (
	"fmt"

	"github.com/NicabarNimble/go-gitrelease/internal/gitx"
	"github.com/NicabarNimble/go-gitrelease/internal/urlutils"
	"github.com/spf13/cobra"
)

type blessOptions struct {
	dir    string
	remote string
	merge  string
	url    string
}

func newBlessCmd() *cobra.Command {
	opts := &blessOptions{}

	cmd := &cobra.Command{
		Use:   "bless",
		Short: "Configure the current branch for releases",
		Long: `Records the remote and tracking ref the release engine publishes to,
as branch.<name>.remote and branch.<name>.merge in the repository
configuration. With --url the remote is first registered under the
given name. Run once per branch before the first release.`,
		Example: `  gitrelease bless --remote origin
  gitrelease bless --remote upstream --merge refs/heads/main
  gitrelease bless --remote origin --url git@example.com:team/project.git`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBless(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "C", ".", "Repository directory")
	cmd.Flags().StringVar(&opts.remote, "remote", "origin", "Remote the branch publishes to")
	cmd.Flags().StringVar(&opts.merge, "merge", "", "Tracking ref (defaults to refs/heads/<branch>)")
	cmd.Flags().StringVar(&opts.url, "url", "", "URL to register for the remote before configuring")

	return cmd
}

func runBless(cmd *cobra.Command, opts *blessOptions) error {
	repo := gitx.NewShell(opts.dir)
	return bless(cmd, repo, opts)
}

func bless(cmd *cobra.Command, repo gitx.Repo, opts *blessOptions) error {
	ctx := cmd.Context()

	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	if opts.url != "" {
		if err := urlutils.Validate(opts.url); err != nil {
			return fmt.Errorf("invalid remote URL: %w", err)
		}
		if err := repo.AddRemote(ctx, opts.remote, opts.url); err != nil {
			return err
		}
	}

	merge := opts.merge
	if merge == "" {
		merge = "refs/heads/" + branch
	}

	if err := repo.ConfigSet(ctx, "branch."+branch+".remote", opts.remote); err != nil {
		return err
	}
	if err := repo.ConfigSet(ctx, "branch."+branch+".merge", merge); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "branch %s publishes to %s (%s)\n", branch, opts.remote, merge)
	return nil
}
