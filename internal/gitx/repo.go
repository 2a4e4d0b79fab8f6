// Package gitx is the minimal VCS surface the release engine consumes.
// The version-control system itself is a black box: every operation
// shells out to git and reports success, failure, or (for pushes) the
// tri-state Outcome, along with raw diagnostic text for the operator.
package gitx

import "context"

// Repo is the set of repository operations the release transaction and
// policy need. Implementations must not retry or reinterpret failures;
// rejection is the race-detection mechanism the transaction relies on.
type Repo interface {
	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(ctx context.Context) (string, error)

	// Head returns the commit hash the current branch points at.
	Head(ctx context.Context) (string, error)

	// ConfigGet reads a repository configuration value. A missing key
	// returns "" with no error.
	ConfigGet(ctx context.Context, key string) (string, error)

	// ConfigSet writes a repository configuration value.
	ConfigSet(ctx context.Context, key, value string) error

	// AddRemote registers a named remote.
	AddRemote(ctx context.Context, name, url string) error

	// RemoteBranchExists reports whether the remote-tracking ref for
	// branch on remote is known locally. It deliberately consults only
	// local knowledge so dry runs stay offline.
	RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error)

	// CreateBranch creates a local branch at the given commit-ish
	// without switching to it.
	CreateBranch(ctx context.Context, name, at string) error

	// ForceBranch moves (or creates) a local branch to the given
	// commit-ish without switching to it.
	ForceBranch(ctx context.Context, name, at string) error

	// DeleteBranch removes a local branch ref.
	DeleteBranch(ctx context.Context, name string) error

	// Checkout switches the working tree to the given branch.
	Checkout(ctx context.Context, branch string) error

	// StashSave stashes all uncommitted changes, untracked files
	// included. It returns false when there was nothing to stash.
	StashSave(ctx context.Context, message string) (bool, error)

	// StashPop restores the most recent stash entry.
	StashPop(ctx context.Context) error

	// Commit stages the given pathspecs and commits them with message.
	Commit(ctx context.Context, message string, paths []string) error

	// Remove stages removal of the given paths, tolerating paths that
	// are not tracked.
	Remove(ctx context.Context, paths ...string) error

	// ResetHard resets the current branch and working tree to ref.
	ResetHard(ctx context.Context, ref string) error

	// Reset moves the current branch to ref, leaving the working tree
	// untouched.
	Reset(ctx context.Context, ref string) error

	// Fetch updates remote-tracking state from the remote.
	Fetch(ctx context.Context, remote string) error

	// CreateTag creates an annotated tag at HEAD.
	CreateTag(ctx context.Context, name, message string) error

	// DeleteTag removes a local tag object.
	DeleteTag(ctx context.Context, name string) error

	// Push publishes a refspec to the remote and classifies the
	// response. The returned string is the raw diagnostic output.
	Push(ctx context.Context, remote, refspec string) (Outcome, string)

	// ChangedPaths lists the paths touched by the given commit.
	ChangedPaths(ctx context.Context, rev string) ([]string, error)
}
