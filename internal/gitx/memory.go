package gitx

import (
	"context"
	"fmt"
)

// PushResult is a scripted response for Memory pushes.
type PushResult struct {
	Outcome Outcome
	Raw     string
}

// Memory is an in-memory Repo used by tests that exercise the policy
// and transaction logic without a real repository. Pushes consume
// scripted results in order; every mutating call is recorded in Ops.
type Memory struct {
	Branch   string            // current branch
	HeadHash string            // current head
	Values   map[string]string // git config values
	Remote   map[string]bool   // known remote branches, "remote/branch"
	Dirty    bool              // working tree has uncommitted changes

	Pushes []PushResult // consumed in order; missing entries are Accepted

	// Recorded state.
	Ops        []string          // chronological operation log
	Branches   map[string]string // local branch name -> hash
	Tags       map[string]string // tag name -> message
	Stashed    bool              // a stash entry currently exists
	commits    int
	pushIndex  int
	FetchCalls int
}

// NewMemory returns a Memory positioned on branch at an initial commit.
func NewMemory(branch string) *Memory {
	return &Memory{
		Branch:   branch,
		HeadHash: "commit-0",
		Values:   make(map[string]string),
		Remote:   make(map[string]bool),
		Branches: make(map[string]string),
		Tags:     make(map[string]string),
	}
}

func (m *Memory) record(format string, args ...interface{}) {
	m.Ops = append(m.Ops, fmt.Sprintf(format, args...))
}

func (m *Memory) CurrentBranch(ctx context.Context) (string, error) {
	return m.Branch, nil
}

func (m *Memory) Head(ctx context.Context) (string, error) {
	return m.HeadHash, nil
}

func (m *Memory) ConfigGet(ctx context.Context, key string) (string, error) {
	return m.Values[key], nil
}

func (m *Memory) ConfigSet(ctx context.Context, key, value string) error {
	m.record("config %s=%s", key, value)
	m.Values[key] = value
	return nil
}

func (m *Memory) AddRemote(ctx context.Context, name, url string) error {
	m.record("remote-add %s %s", name, url)
	return nil
}

func (m *Memory) RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error) {
	return m.Remote[remote+"/"+branch], nil
}

func (m *Memory) CreateBranch(ctx context.Context, name, at string) error {
	m.record("branch %s %s", name, at)
	if at == "HEAD" {
		at = m.HeadHash
	}
	m.Branches[name] = at
	return nil
}

func (m *Memory) ForceBranch(ctx context.Context, name, at string) error {
	m.record("branch -f %s %s", name, at)
	if at == "HEAD" {
		at = m.HeadHash
	}
	m.Branches[name] = at
	return nil
}

func (m *Memory) DeleteBranch(ctx context.Context, name string) error {
	m.record("branch -D %s", name)
	delete(m.Branches, name)
	return nil
}

func (m *Memory) Checkout(ctx context.Context, branch string) error {
	m.record("checkout %s", branch)
	m.Branch = branch
	if hash, ok := m.Branches[branch]; ok {
		m.HeadHash = hash
	}
	return nil
}

func (m *Memory) StashSave(ctx context.Context, message string) (bool, error) {
	if !m.Dirty {
		return false, nil
	}
	m.record("stash push")
	m.Stashed = true
	return true, nil
}

func (m *Memory) StashPop(ctx context.Context) error {
	m.record("stash pop")
	m.Stashed = false
	return nil
}

func (m *Memory) Commit(ctx context.Context, message string, paths []string) error {
	m.commits++
	m.HeadHash = fmt.Sprintf("commit-%d", m.commits)
	m.record("commit %q", message)
	return nil
}

func (m *Memory) Remove(ctx context.Context, paths ...string) error {
	m.record("rm %v", paths)
	return nil
}

func (m *Memory) ResetHard(ctx context.Context, ref string) error {
	m.record("reset --hard %s", ref)
	m.HeadHash = ref
	return nil
}

func (m *Memory) Reset(ctx context.Context, ref string) error {
	m.record("reset %s", ref)
	m.HeadHash = ref
	return nil
}

func (m *Memory) Fetch(ctx context.Context, remote string) error {
	m.record("fetch %s", remote)
	m.FetchCalls++
	return nil
}

func (m *Memory) CreateTag(ctx context.Context, name, message string) error {
	m.record("tag %s", name)
	m.Tags[name] = message
	return nil
}

func (m *Memory) DeleteTag(ctx context.Context, name string) error {
	m.record("tag -d %s", name)
	delete(m.Tags, name)
	return nil
}

func (m *Memory) Push(ctx context.Context, remote, refspec string) (Outcome, string) {
	m.record("push %s %s", remote, refspec)
	if m.pushIndex < len(m.Pushes) {
		r := m.Pushes[m.pushIndex]
		m.pushIndex++
		return r.Outcome, r.Raw
	}
	return Accepted, ""
}

func (m *Memory) ChangedPaths(ctx context.Context, rev string) ([]string, error) {
	return nil, nil
}
