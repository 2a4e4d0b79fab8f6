package main

import (
	"fmt"
	"path/filepath"

	"github.com/NicabarNimble/go-gitrelease/internal/artifact"
	"github.com/NicabarNimble/go-gitrelease/internal/config"
	"github.com/NicabarNimble/go-gitrelease/internal/gitx"
	"github.com/NicabarNimble/go-gitrelease/internal/hooks"
	"github.com/NicabarNimble/go-gitrelease/internal/policy"
	"github.com/NicabarNimble/go-gitrelease/internal/progress"
	"github.com/NicabarNimble/go-gitrelease/internal/transaction"
	"github.com/spf13/cobra"
)

type releaseOptions struct {
	dir        string
	configFile string
	tag        bool
	branch     bool
	branch2    bool
	buildOnly  bool
	noPush     bool
}

func runRelease(cmd *cobra.Command, opts *releaseOptions) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(filepath.Join(opts.dir, opts.configFile))
	if err != nil {
		return err
	}

	repo := gitx.NewShell(opts.dir)
	files := artifact.NewStore(opts.dir, cfg.VersionFile, cfg.BuildFile, cfg.ArgsFile)

	decision, err := policy.Decide(ctx, repo, cfg, files, policy.Flags{
		Tag:       opts.tag,
		Branch:    opts.branch,
		Branch2:   opts.branch2,
		BuildOnly: opts.buildOnly,
	})
	if err != nil {
		return err
	}

	tx := transaction.New(transaction.Options{
		Repo:    repo,
		Config:  cfg,
		Files:   files,
		Hooks:   hooks.NewDirDispatcher(opts.dir, cfg.HooksDir),
		Tracker: progress.NewConsoleTracker(cmd.OutOrStdout()),
		NoPush:  opts.noPush,
	})

	rep, err := tx.Run(ctx, decision)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case rep.Mode == policy.BuildOnly:
		fmt.Fprintf(out, "tagged %s (build %d)\n", rep.TagName, rep.Build)
	case rep.Mode.IsBranch():
		fmt.Fprintf(out, "created branch %s; %s continues at version %s\n",
			rep.NewBranch, decision.Branch, rep.NewVersion)
	default:
		fmt.Fprintf(out, "tagged %s\n", rep.TagName)
	}
	if rep.Deferred {
		fmt.Fprintln(out, "one or more pushes were deferred; fetch once the remote has applied them")
	}
	return nil
}
