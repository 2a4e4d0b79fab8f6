// Package hooks invokes optional external lifecycle programs at fixed
// points of a release. Hooks are best-effort extensions, never gates: a
// hook's exit status does not affect the release outcome, and absence
// of a hook is not an error.
package hooks

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
)

// Point names a lifecycle point at which hooks may run.
type Point string

const (
	PreBranch   Point = "pre-branch"
	NewBranch   Point = "new-branch"
	PostBranch  Point = "post-branch"
	PreTag      Point = "pre-tag"
	PostTag     Point = "post-tag"
	PreRelease  Point = "pre-release"
	PostRelease Point = "post-release"
	PreBuild    Point = "pre-build"
	PostBuild   Point = "post-build"
)

// Dispatcher runs whatever is registered for a lifecycle point. The
// core transaction only ever sees this interface; hook discovery is an
// implementation concern.
type Dispatcher interface {
	Run(ctx context.Context, p Point)
}

// Registry is a capability-typed Dispatcher for tests and embedders:
// each point maps to an optional callable.
type Registry map[Point]func(context.Context)

// Run invokes the callable registered for p, if any.
func (r Registry) Run(ctx context.Context, p Point) {
	if fn, ok := r[p]; ok && fn != nil {
		fn(ctx)
	}
}

// DirDispatcher probes two conventional locations per point: a
// dotfile-style name next to the repository root and an entry inside
// the hooks directory. The first executable candidate runs with no
// arguments and inherited stdio, in the current process context, so it
// can intentionally influence environment and working-tree state.
type DirDispatcher struct {
	Dir      string // Repository root
	HooksDir string // Subdirectory probed for hook programs
}

// NewDirDispatcher creates a DirDispatcher rooted at dir.
func NewDirDispatcher(dir, hooksDir string) *DirDispatcher {
	return &DirDispatcher{Dir: dir, HooksDir: hooksDir}
}

// runHook is a variable so it can be observed in tests.
var runHook = func(ctx context.Context, dir, path string) {
	cmd := exec.CommandContext(ctx, path)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	// Hook failures are deliberately ignored.
	_ = cmd.Run()
}

// Run looks for a hook for p and executes the first executable
// candidate found.
func (d *DirDispatcher) Run(ctx context.Context, p Point) {
	for _, candidate := range d.candidates(p) {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0111 == 0 {
			continue
		}
		runHook(ctx, d.Dir, candidate)
		return
	}
}

func (d *DirDispatcher) candidates(p Point) []string {
	return []string{
		filepath.Join(d.Dir, ".gitrelease-"+string(p)),
		filepath.Join(d.Dir, d.HooksDir, "hooks", string(p)),
	}
}
