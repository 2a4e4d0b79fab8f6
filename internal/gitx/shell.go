package gitx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/NicabarNimble/go-gitrelease/internal/errors"
)

// Shell is the exec-backed Repo implementation. Every operation runs
// `git -C dir ...` and surfaces combined output as diagnostic text.
// There is no timeout here: a push blocks until the remote answers, and
// callers needing bounded latency wrap the whole invocation.
type Shell struct {
	Dir string
}

// NewShell returns a Shell operating on the repository at dir.
func NewShell(dir string) *Shell {
	return &Shell{Dir: dir}
}

// runGit is a variable so it can be mocked in tests.
var runGit = func(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func (s *Shell) git(ctx context.Context, op string, args ...string) (string, error) {
	out, err := runGit(ctx, s.Dir, args...)
	if err != nil {
		return out, errors.New(op, fmt.Errorf("git %s failed: %w\n%s", args[0], err, errors.DiagnosticTail(out, 5)))
	}
	return out, nil
}

func (s *Shell) CurrentBranch(ctx context.Context) (string, error) {
	out, err := s.git(ctx, "current-branch", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *Shell) Head(ctx context.Context) (string, error) {
	out, err := s.git(ctx, "head", "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *Shell) ConfigGet(ctx context.Context, key string) (string, error) {
	out, err := runGit(ctx, s.Dir, "config", "--get", key)
	if err != nil {
		// Exit code 1 means the key is unset, which is not an error
		// for our purposes.
		if exitError, ok := unwrapExit(err); ok && exitError.ExitCode() == 1 {
			return "", nil
		}
		return "", errors.New("config-get", fmt.Errorf("git config --get %s failed: %w", key, err))
	}
	return strings.TrimSpace(out), nil
}

func (s *Shell) ConfigSet(ctx context.Context, key, value string) error {
	_, err := s.git(ctx, "config-set", "config", key, value)
	return err
}

func (s *Shell) AddRemote(ctx context.Context, name, url string) error {
	_, err := s.git(ctx, "add-remote", "remote", "add", name, url)
	return err
}

func (s *Shell) RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error) {
	_, err := runGit(ctx, s.Dir, "show-ref", "--verify", "--quiet",
		"refs/remotes/"+remote+"/"+branch)
	if err != nil {
		if exitError, ok := unwrapExit(err); ok && exitError.ExitCode() == 1 {
			return false, nil
		}
		return false, errors.New("remote-branch-exists", fmt.Errorf("git show-ref failed: %w", err))
	}
	return true, nil
}

func (s *Shell) CreateBranch(ctx context.Context, name, at string) error {
	_, err := s.git(ctx, "create-branch", "branch", name, at)
	return err
}

func (s *Shell) ForceBranch(ctx context.Context, name, at string) error {
	_, err := s.git(ctx, "force-branch", "branch", "-f", name, at)
	return err
}

func (s *Shell) DeleteBranch(ctx context.Context, name string) error {
	_, err := s.git(ctx, "delete-branch", "branch", "-D", name)
	return err
}

func (s *Shell) Checkout(ctx context.Context, branch string) error {
	_, err := s.git(ctx, "checkout", "checkout", branch)
	return err
}

func (s *Shell) StashSave(ctx context.Context, message string) (bool, error) {
	out, err := s.git(ctx, "stash-save", "status", "--porcelain")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(out) == "" {
		return false, nil
	}
	if _, err := s.git(ctx, "stash-save", "stash", "push", "--include-untracked", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Shell) StashPop(ctx context.Context) error {
	_, err := s.git(ctx, "stash-pop", "stash", "pop")
	return err
}

func (s *Shell) Commit(ctx context.Context, message string, paths []string) error {
	addArgs := append([]string{"add", "-A", "--"}, paths...)
	if _, err := s.git(ctx, "commit", addArgs...); err != nil {
		return err
	}
	commitArgs := append([]string{"commit", "-m", message, "--"}, paths...)
	_, err := s.git(ctx, "commit", commitArgs...)
	return err
}

func (s *Shell) Remove(ctx context.Context, paths ...string) error {
	args := append([]string{"rm", "-f", "--ignore-unmatch", "--"}, paths...)
	_, err := s.git(ctx, "remove", args...)
	return err
}

func (s *Shell) ResetHard(ctx context.Context, ref string) error {
	_, err := s.git(ctx, "reset-hard", "reset", "--hard", ref)
	return err
}

func (s *Shell) Reset(ctx context.Context, ref string) error {
	_, err := s.git(ctx, "reset", "reset", ref)
	return err
}

func (s *Shell) Fetch(ctx context.Context, remote string) error {
	_, err := s.git(ctx, "fetch", "fetch", "--tags", remote)
	return err
}

func (s *Shell) CreateTag(ctx context.Context, name, message string) error {
	_, err := s.git(ctx, "create-tag", "tag", "-a", "-m", message, name)
	return err
}

func (s *Shell) DeleteTag(ctx context.Context, name string) error {
	_, err := s.git(ctx, "delete-tag", "tag", "-d", name)
	return err
}

func (s *Shell) Push(ctx context.Context, remote, refspec string) (Outcome, string) {
	out, err := runGit(ctx, s.Dir, "push", remote, refspec)
	return Classify(out, err), out
}

func (s *Shell) ChangedPaths(ctx context.Context, rev string) ([]string, error) {
	out, err := s.git(ctx, "changed-paths", "diff-tree", "--no-commit-id", "--name-only", "-r", rev)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

func unwrapExit(err error) (*exec.ExitError, bool) {
	exitError, ok := err.(*exec.ExitError)
	return exitError, ok
}
