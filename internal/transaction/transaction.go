// Package transaction sequences the checkpointed commit/push protocol
// of a release. The underlying git operations are not transactional, so
// the sequence is arranged to look atomic from the outside: every
// rejection either rolls the repository back to its pre-invocation
// state or restructures it into a named, operator-visible
// reconciliation state. It never leaves a half-applied one.
package transaction

import (
	"context"
	"fmt"
	"strconv"

	"github.com/NicabarNimble/go-gitrelease/internal/artifact"
	"github.com/NicabarNimble/go-gitrelease/internal/config"
	"github.com/NicabarNimble/go-gitrelease/internal/errors"
	"github.com/NicabarNimble/go-gitrelease/internal/gitx"
	"github.com/NicabarNimble/go-gitrelease/internal/hooks"
	"github.com/NicabarNimble/go-gitrelease/internal/policy"
	"github.com/NicabarNimble/go-gitrelease/internal/progress"
	"github.com/NicabarNimble/go-gitrelease/internal/version"
)

// State is the position of the transaction state machine. Transitions
// are strictly forward; Aborted is terminal and reachable from any
// state after Checkpointed.
type State int

const (
	StateInit State = iota
	StateCheckpointed
	StateLocalCommitted
	StateRemoteBranchPublished
	StateMainlinePublished
	StateCleaned
	StateDone
	StateAborted
)

var stateStatus = map[State]progress.TransactionStatus{
	StateInit:                  progress.StatusInit,
	StateCheckpointed:          progress.StatusCheckpointed,
	StateLocalCommitted:        progress.StatusLocalCommitted,
	StateRemoteBranchPublished: progress.StatusRemoteBranchPublished,
	StateMainlinePublished:     progress.StatusMainlinePublished,
	StateCleaned:               progress.StatusCleaned,
	StateDone:                  progress.StatusDone,
	StateAborted:               progress.StatusAborted,
}

// Options configures a Transaction.
type Options struct {
	Repo    gitx.Repo
	Config  *config.ReleaseConfig
	Files   *artifact.Store
	Hooks   hooks.Dispatcher
	Tracker progress.Tracker
	NoPush  bool // dry run: everything local happens, nothing touches the network
}

// Transaction executes exactly one release operation.
type Transaction struct {
	repo    gitx.Repo
	cfg     *config.ReleaseConfig
	files   *artifact.Store
	hooks   hooks.Dispatcher
	tracker progress.Tracker
	noPush  bool
	state   State
}

// Report summarizes a completed transaction for the caller.
type Report struct {
	Mode        policy.Mode
	OldVersion  version.Version
	NewVersion  version.Version
	TagName     string
	NewBranch   string
	FinalBranch string // branch the operator is left on
	Build       int    // build counter value, build-only runs
	Deferred    bool   // at least one push awaits server-side acceptance
}

// New creates a Transaction.
func New(opts Options) *Transaction {
	t := &Transaction{
		repo:    opts.Repo,
		cfg:     opts.Config,
		files:   opts.Files,
		hooks:   opts.Hooks,
		tracker: opts.Tracker,
		noPush:  opts.NoPush,
	}
	if t.hooks == nil {
		t.hooks = hooks.Registry{}
	}
	if t.tracker == nil {
		t.tracker = progress.Discard{}
	}
	return t
}

// State returns the current state machine position.
func (t *Transaction) State() State {
	return t.state
}

// Run executes the decided operation. On error the repository is in
// one of the defined terminal states: untouched (precondition), rolled
// back (rejection before any remote change), or a named reconciliation
// state (rejection after a partial remote change).
func (t *Transaction) Run(ctx context.Context, d *policy.Decision) (*Report, error) {
	if d.Mode.IsBranch() {
		return t.runBranch(ctx, d)
	}
	return t.runTag(ctx, d)
}

func (t *Transaction) setState(s State) {
	t.state = s
	t.tracker.Status(stateStatus[s])
}

func (t *Transaction) abort(err error) error {
	t.state = StateAborted
	t.tracker.Error(err)
	return err
}

// push is the single gate to the network. Dry runs report acceptance
// without touching the remote.
func (t *Transaction) push(ctx context.Context, remote, refspec string) (gitx.Outcome, string) {
	if t.noPush {
		t.tracker.Notef("dry run: skipping push of %s to %s", refspec, remote)
		return gitx.Accepted, ""
	}
	return t.repo.Push(ctx, remote, refspec)
}

func commitMessage(subject, extra string) string {
	if extra == "" {
		return subject
	}
	return subject + "\n\n" + extra
}

func (t *Transaction) runBranch(ctx context.Context, d *policy.Decision) (*Report, error) {
	rep := &Report{
		Mode:        d.Mode,
		OldVersion:  d.BaseVersion,
		NewVersion:  d.NextVersion,
		NewBranch:   d.NewBranch,
		FinalBranch: d.Branch,
	}
	t.tracker.Start("branch " + d.NewBranch)
	t.hooks.Run(ctx, hooks.PreBranch)
	t.hooks.Run(ctx, hooks.PreRelease)

	oldHead, err := t.repo.Head(ctx)
	if err != nil {
		return nil, t.abort(err)
	}
	extra, err := t.files.ReadArgs()
	if err != nil {
		return nil, t.abort(err)
	}
	hadBuild := t.files.HasBuild()
	buildVal := 0
	if hadBuild {
		if buildVal, err = t.files.ReadBuild(); err != nil {
			return nil, t.abort(err)
		}
	}

	checkpoint := t.cfg.CheckpointRef + d.NewBranch

	stashed, err := t.repo.StashSave(ctx, "gitrelease checkpoint "+d.NewBranch)
	if err != nil {
		return nil, t.abort(err)
	}

	// Branch-root commit: the pre-release marker the new line starts
	// from. Build counters are a mainline concept and must not be
	// carried onto the branch.
	if err := t.branchRootCommit(ctx, d, hadBuild, extra); err != nil {
		t.rollbackLocal(ctx, oldHead, "", stashed)
		return nil, t.abort(err)
	}
	if err := t.repo.CreateBranch(ctx, checkpoint, "HEAD"); err != nil {
		t.rollbackLocal(ctx, oldHead, "", stashed)
		return nil, t.abort(err)
	}
	t.setState(StateCheckpointed)
	t.hooks.Run(ctx, hooks.NewBranch)

	// Mainline advancement commit on the current branch.
	if err := t.mainlineAdvanceCommit(ctx, d, hadBuild, buildVal); err != nil {
		t.rollbackLocal(ctx, oldHead, checkpoint, stashed)
		return nil, t.abort(err)
	}
	t.setState(StateLocalCommitted)

	// Publish attempt 1: the new branch, rooted at the checkpoint.
	outcome, raw := t.push(ctx, d.Remote, checkpoint+":refs/heads/"+d.NewBranch)
	if outcome == gitx.Rejected {
		// Nothing is public yet; the repository goes back to its
		// pre-invocation state exactly.
		t.rollbackLocal(ctx, oldHead, checkpoint, stashed)
		return nil, t.abort(errors.New("branch",
			fmt.Errorf("remote rejected branch %s:\n%s", d.NewBranch, errors.DiagnosticTail(raw, 5))))
	}
	if outcome == gitx.Deferred {
		rep.Deferred = true
		t.tracker.Notef("branch push deferred; server-side acceptance pending")
	}
	t.setState(StateRemoteBranchPublished)

	// Publish attempt 2: the mainline advancement.
	outcome, raw = t.push(ctx, d.Remote, d.Branch+":"+d.MergeRef)
	if outcome == gitx.Rejected {
		// The asymmetric-failure case: the new branch is already
		// public, so the advancement commit cannot be discarded. Swap
		// roles: the checkpoint ref keeps the conflicting commit, the
		// original branch is restored.
		if err := t.repo.ForceBranch(ctx, checkpoint, "HEAD"); err != nil {
			return nil, t.abort(err)
		}
		if err := t.repo.ResetHard(ctx, oldHead); err != nil {
			return nil, t.abort(err)
		}
		if stashed {
			if err := t.repo.StashPop(ctx); err != nil {
				return nil, t.abort(err)
			}
		}
		rerr := errors.NewReconcileError("branch",
			fmt.Sprintf("branch %s was published but the %s advancement was rejected; merge the checkpoint ref into %s\n%s",
				d.NewBranch, d.Branch, d.Branch, errors.DiagnosticTail(raw, 5)),
			checkpoint, raw, nil)
		return nil, t.abort(rerr)
	}
	if outcome == gitx.Deferred {
		rep.Deferred = true
		t.tracker.Notef("mainline push deferred; server-side acceptance pending")
	}
	t.setState(StateMainlinePublished)

	// Cleanup. Conventional branch leaves the operator on the new
	// line; branch2 stays on the original branch.
	if d.Mode == policy.Branch {
		if err := t.switchToNewBranch(ctx, d, checkpoint); err != nil {
			return nil, t.abort(err)
		}
		rep.FinalBranch = d.NewBranch
	}
	if err := t.repo.DeleteBranch(ctx, checkpoint); err != nil {
		return nil, t.abort(err)
	}
	if stashed {
		if err := t.repo.StashPop(ctx); err != nil {
			return nil, t.abort(err)
		}
	}
	if extra != "" {
		if err := t.files.RestoreRaw(t.files.ArgsPath(), nil); err != nil {
			return nil, t.abort(err)
		}
	}
	t.setState(StateCleaned)

	t.hooks.Run(ctx, hooks.PostBranch)
	t.hooks.Run(ctx, hooks.PostRelease)
	t.setState(StateDone)
	t.tracker.Complete()
	return rep, nil
}

func (t *Transaction) branchRootCommit(ctx context.Context, d *policy.Decision, hadBuild bool, extra string) error {
	if err := t.files.WriteVersion(d.BranchVersion); err != nil {
		return err
	}
	paths := []string{t.files.VersionPath()}
	if hadBuild {
		if err := t.repo.Remove(ctx, t.files.BuildPath()); err != nil {
			return err
		}
		paths = append(paths, t.files.BuildPath())
	}
	subject := fmt.Sprintf("begin version line %s", d.BranchVersion)
	return t.repo.Commit(ctx, commitMessage(subject, extra), paths)
}

func (t *Transaction) mainlineAdvanceCommit(ctx context.Context, d *policy.Decision, hadBuild bool, buildVal int) error {
	if err := t.files.WriteVersion(d.NextVersion); err != nil {
		return err
	}
	paths := []string{t.files.VersionPath()}
	if hadBuild {
		if err := t.files.WriteBuild(buildVal); err != nil {
			return err
		}
		paths = append(paths, t.files.BuildPath())
	}
	subject := fmt.Sprintf("advance %s to version %s", d.Branch, d.NextVersion)
	return t.repo.Commit(ctx, subject, paths)
}

func (t *Transaction) switchToNewBranch(ctx context.Context, d *policy.Decision, checkpoint string) error {
	if err := t.repo.CreateBranch(ctx, d.NewBranch, checkpoint); err != nil {
		return err
	}
	if err := t.repo.ConfigSet(ctx, "branch."+d.NewBranch+".remote", d.Remote); err != nil {
		return err
	}
	if err := t.repo.ConfigSet(ctx, "branch."+d.NewBranch+".merge", "refs/heads/"+d.NewBranch); err != nil {
		return err
	}
	return t.repo.Checkout(ctx, d.NewBranch)
}

// rollbackLocal undoes every local mutation of this invocation. Safe to
// call before any remote-visible change only.
func (t *Transaction) rollbackLocal(ctx context.Context, oldHead, checkpoint string, stashed bool) {
	_ = t.repo.ResetHard(ctx, oldHead)
	if checkpoint != "" {
		_ = t.repo.DeleteBranch(ctx, checkpoint)
	}
	if stashed {
		_ = t.repo.StashPop(ctx)
	}
}

func (t *Transaction) runTag(ctx context.Context, d *policy.Decision) (*Report, error) {
	rep := &Report{
		Mode:        d.Mode,
		OldVersion:  d.BaseVersion,
		FinalBranch: d.Branch,
	}
	buildOnly := d.Mode == policy.BuildOnly

	if buildOnly {
		t.tracker.Start("build tag on " + d.Branch)
		t.hooks.Run(ctx, hooks.PreBuild)
	} else {
		t.tracker.Start("tag " + d.TagName)
		t.hooks.Run(ctx, hooks.PreTag)
		t.hooks.Run(ctx, hooks.PreRelease)
	}

	oldHead, err := t.repo.Head(ctx)
	if err != nil {
		return nil, t.abort(err)
	}
	savedVersion, err := t.files.Snapshot(t.files.VersionPath())
	if err != nil {
		return nil, t.abort(err)
	}
	var savedBuild []byte
	if t.files.BuildPath() != "" {
		if savedBuild, err = t.files.Snapshot(t.files.BuildPath()); err != nil {
			return nil, t.abort(err)
		}
	}
	extra, err := t.files.ReadArgs()
	if err != nil {
		return nil, t.abort(err)
	}
	t.setState(StateCheckpointed)

	var tagName, subject string
	var paths []string
	if buildOnly {
		n, err := t.files.ReadBuild()
		if err != nil {
			return nil, t.abort(err)
		}
		n++
		if err := t.files.WriteBuild(n); err != nil {
			return nil, t.abort(err)
		}
		rep.Build = n
		tagName = t.cfg.BuildPrefix + strconv.Itoa(n)
		subject = fmt.Sprintf("build %d", n)
		paths = []string{t.files.BuildPath()}
	} else {
		if err := t.files.WriteVersion(d.NextVersion); err != nil {
			return nil, t.abort(err)
		}
		rep.NewVersion = d.NextVersion
		tagName = d.TagName
		subject = fmt.Sprintf("release %s", tagName)
		paths = []string{t.files.VersionPath()}
	}
	rep.TagName = tagName

	if err := t.repo.Commit(ctx, commitMessage(subject, extra), paths); err != nil {
		t.restoreScalars(savedVersion, savedBuild)
		return nil, t.abort(err)
	}
	if err := t.repo.CreateTag(ctx, tagName, subject); err != nil {
		t.rollbackTag(ctx, oldHead, "", savedVersion, savedBuild)
		return nil, t.abort(err)
	}
	t.setState(StateLocalCommitted)

	// Publish attempt 1: the branch update.
	outcome, raw := t.push(ctx, d.Remote, d.Branch+":"+d.MergeRef)
	if outcome == gitx.Rejected {
		// Nothing is public yet; unwind to the pre-invocation state,
		// leaving unrelated working-tree modifications untouched.
		t.rollbackTag(ctx, oldHead, tagName, savedVersion, savedBuild)
		return nil, t.abort(errors.New("tag",
			fmt.Errorf("remote rejected the %s update:\n%s", d.Branch, errors.DiagnosticTail(raw, 5))))
	}
	if outcome == gitx.Deferred {
		rep.Deferred = true
		t.tracker.Notef("branch push deferred; server-side acceptance pending")
	}
	t.setState(StateMainlinePublished)

	// Publish attempt 2: the tag itself.
	outcome, raw = t.push(ctx, d.Remote, "refs/tags/"+tagName)
	if outcome == gitx.Rejected {
		// The branch commit is already public, so no rollback. The
		// remote may have taken the commit even though it refused the
		// tag; reconcile local state from it and let the operator sort
		// out the likely duplicate tag.
		if !t.noPush {
			_ = t.repo.Fetch(ctx, d.Remote)
		}
		rerr := errors.NewReconcileError("tag",
			fmt.Sprintf("tag %s was rejected after the %s update was published; a tag of that name likely already exists\n%s",
				tagName, d.Branch, errors.DiagnosticTail(raw, 5)),
			"", raw, nil)
		return nil, t.abort(rerr)
	}
	if outcome == gitx.Deferred {
		rep.Deferred = true
		// The tag will reappear locally once the deferred remote
		// operation completes and is fetched.
		if err := t.repo.DeleteTag(ctx, tagName); err != nil {
			return nil, t.abort(err)
		}
		t.tracker.Notef("tag push deferred; local tag removed until the remote materializes it")
	}
	if extra != "" {
		if err := t.files.RestoreRaw(t.files.ArgsPath(), nil); err != nil {
			return nil, t.abort(err)
		}
	}
	t.setState(StateCleaned)

	if buildOnly {
		t.hooks.Run(ctx, hooks.PostBuild)
	} else {
		t.hooks.Run(ctx, hooks.PostTag)
		t.hooks.Run(ctx, hooks.PostRelease)
	}
	t.setState(StateDone)
	t.tracker.Complete()
	return rep, nil
}

func (t *Transaction) restoreScalars(savedVersion, savedBuild []byte) {
	_ = t.files.RestoreRaw(t.files.VersionPath(), savedVersion)
	if t.files.BuildPath() != "" {
		_ = t.files.RestoreRaw(t.files.BuildPath(), savedBuild)
	}
}

// rollbackTag unwinds an uncommitted-to-the-remote tag attempt: branch
// pointer back, tag object gone, scalar files byte-identical.
func (t *Transaction) rollbackTag(ctx context.Context, oldHead, tagName string, savedVersion, savedBuild []byte) {
	if tagName != "" {
		_ = t.repo.DeleteTag(ctx, tagName)
	}
	_ = t.repo.Reset(ctx, oldHead)
	t.restoreScalars(savedVersion, savedBuild)
}
