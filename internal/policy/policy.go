// Package policy decides, once per invocation, what kind of release
// operation the current repository state calls for.
package policy

import (
	"context"
	"strings"

	"github.com/NicabarNimble/go-gitrelease/internal/artifact"
	"github.com/NicabarNimble/go-gitrelease/internal/config"
	"github.com/NicabarNimble/go-gitrelease/internal/errors"
	"github.com/NicabarNimble/go-gitrelease/internal/gitx"
	"github.com/NicabarNimble/go-gitrelease/internal/version"
)

// Mode is the operation kind chosen for one invocation. It is derived
// once and immutable for the remainder of the run.
type Mode int

const (
	// Tag advances the version and creates a release tag on the
	// current line.
	Tag Mode = iota
	// Branch forks a stabilization line and leaves the operator on it.
	Branch
	// Branch2 forks a stabilization line under the sliding-window
	// version policy and leaves the operator on the original branch.
	Branch2
	// BuildOnly increments the mainline build counter and tags it,
	// leaving the semantic version untouched.
	BuildOnly
)

func (m Mode) String() string {
	switch m {
	case Tag:
		return "tag"
	case Branch:
		return "branch"
	case Branch2:
		return "branch2"
	case BuildOnly:
		return "build-only"
	}
	return "unknown"
}

// IsBranch reports whether m forks a new line.
func (m Mode) IsBranch() bool {
	return m == Branch || m == Branch2
}

// Flags are the explicit mode requests from the command line. At most
// one of Tag, Branch, Branch2 may be set; the caller enforces mutual
// exclusion before calling Decide.
type Flags struct {
	Tag       bool
	Branch    bool
	Branch2   bool
	BuildOnly bool
}

// Decision is everything the transaction needs to execute one
// invocation, derived up front so no policy choice is made mid-flight.
type Decision struct {
	Mode Mode

	// Current branch identity and destination.
	Branch   string // checked-out branch name
	Remote   string // configured remote of the branch
	MergeRef string // configured remote tracking ref, e.g. refs/heads/master

	// Version arithmetic.
	BaseVersion   version.Version // persisted version before any mutation
	NextVersion   version.Version // version the current line advances to
	BranchVersion version.Version // pre-release marker written on a new branch

	// Branch operations only.
	NewBranch string // name of the stabilization branch to create

	// Tag operations only.
	TagName string
}

// Decide inspects the repository and derives the Decision for this
// invocation. All precondition failures happen here, before any
// mutation, so a Decide error is always safe to just report and stop.
func Decide(ctx context.Context, repo gitx.Repo, cfg *config.ReleaseConfig, files *artifact.Store, flags Flags) (*Decision, error) {
	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	if branch == "" || branch == "HEAD" {
		return nil, errors.NewPreconditionError("policy", "not on a branch (detached HEAD)")
	}

	remote, err := repo.ConfigGet(ctx, "branch."+branch+".remote")
	if err != nil {
		return nil, err
	}
	mergeRef, err := repo.ConfigGet(ctx, "branch."+branch+".merge")
	if err != nil {
		return nil, err
	}
	// Operating without a known remote destination risks publishing to
	// the wrong place, so missing tracking metadata is fatal rather
	// than defaulted. `gitrelease bless` sets it up.
	if remote == "" || mergeRef == "" {
		return nil, errors.NewPreconditionError("policy",
			"branch %q has no configured remote/tracking ref; run `gitrelease bless` first", branch)
	}

	base, err := files.ReadVersion()
	if err != nil {
		return nil, err
	}

	onMainline := mergeRef == cfg.MainlineRef()
	trackedBranch := strings.TrimPrefix(mergeRef, "refs/heads/")

	d := &Decision{
		Branch:      branch,
		Remote:      remote,
		MergeRef:    mergeRef,
		BaseVersion: base,
	}

	// First match wins.
	switch {
	case flags.BuildOnly:
		if !onMainline {
			return nil, errors.NewPreconditionError("policy",
				"build-only releases are a mainline concept; %q tracks %q", branch, mergeRef)
		}
		d.Mode = BuildOnly
	case flags.Tag:
		d.Mode = Tag
	case flags.Branch2:
		d.Mode = Branch2
	case flags.Branch:
		d.Mode = Branch
	case onMainline && !cfg.TagMainline:
		d.Mode = Branch
	case onMainline && cfg.TagMainline:
		d.Mode = Tag
	case strings.HasPrefix(trackedBranch, cfg.BranchPrefix):
		d.Mode = Tag
	default:
		return nil, errors.NewPreconditionError("policy",
			"branch %q tracks neither the mainline nor a version line (%q)", branch, mergeRef)
	}

	switch {
	case d.Mode.IsBranch():
		if err := completeBranchDecision(ctx, repo, cfg, d); err != nil {
			return nil, err
		}
	case d.Mode == Tag:
		d.NextVersion = base.Next()
		d.TagName = cfg.ReleasePrefix + d.NextVersion.String()
	}
	// BuildOnly tag names depend on the counter value, which the
	// transaction reads at commit time.

	return d, nil
}

func completeBranchDecision(ctx context.Context, repo gitx.Repo, cfg *config.ReleaseConfig, d *Decision) error {
	if d.BaseVersion.IsPreRelease() {
		return errors.NewPreconditionError("policy",
			"version %q has had no release yet; tag before branching", d.BaseVersion)
	}

	d.NewBranch = cfg.BranchPrefix + d.BaseVersion.String()
	exists, err := repo.RemoteBranchExists(ctx, d.Remote, d.NewBranch)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewPreconditionError("policy",
			"branch %q already exists on remote %q", d.NewBranch, d.Remote)
	}

	d.BranchVersion = d.BaseVersion.PreRelease()
	if d.Mode == Branch2 {
		d.NextVersion = d.BaseVersion.NextSlidingWindow()
	} else {
		d.NextVersion = d.BaseVersion.Next()
	}
	return nil
}
