package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NicabarNimble/go-gitrelease/internal/version"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), "VERSION", "BUILD", "RELEASE_ARGS")
}

func TestReadVersionDefault(t *testing.T) {
	s := newTestStore(t)

	v, err := s.ReadVersion()
	if err != nil {
		t.Fatalf("ReadVersion() error = %v", err)
	}
	if v != DefaultVersion {
		t.Errorf("ReadVersion() = %q, want %q", v, DefaultVersion)
	}
}

func TestVersionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.WriteVersion(version.Version("3.2")); err != nil {
		t.Fatalf("WriteVersion() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, s.VersionFile))
	if err != nil {
		t.Fatalf("reading version file: %v", err)
	}
	if string(data) != "3.2\n" {
		t.Errorf("version file content = %q, want %q", data, "3.2\n")
	}

	v, err := s.ReadVersion()
	if err != nil {
		t.Fatalf("ReadVersion() error = %v", err)
	}
	if v != "3.2" {
		t.Errorf("ReadVersion() = %q, want %q", v, "3.2")
	}
}

func TestReadVersionTrimsLineEndings(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir, s.VersionFile), []byte("3.\r\n"), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := s.ReadVersion()
	if err != nil {
		t.Fatalf("ReadVersion() error = %v", err)
	}
	if v != "3." {
		t.Errorf("ReadVersion() = %q, want %q", v, "3.")
	}
}

func TestBuildCounter(t *testing.T) {
	s := newTestStore(t)

	if s.HasBuild() {
		t.Error("HasBuild() = true before any write")
	}

	n, err := s.ReadBuild()
	if err != nil {
		t.Fatalf("ReadBuild() error = %v", err)
	}
	if n != 0 {
		t.Errorf("ReadBuild() = %d, want 0", n)
	}

	if err := s.WriteBuild(42); err != nil {
		t.Fatalf("WriteBuild() error = %v", err)
	}
	if !s.HasBuild() {
		t.Error("HasBuild() = false after write")
	}

	n, err = s.ReadBuild()
	if err != nil {
		t.Fatalf("ReadBuild() error = %v", err)
	}
	if n != 42 {
		t.Errorf("ReadBuild() = %d, want 42", n)
	}
}

func TestReadBuildGarbageCountsAsZero(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir, s.BuildFile), []byte("not-a-number\n"), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := s.ReadBuild()
	if err != nil {
		t.Fatalf("ReadBuild() error = %v", err)
	}
	if n != 0 {
		t.Errorf("ReadBuild() = %d, want 0", n)
	}
}

func TestReadArgs(t *testing.T) {
	s := newTestStore(t)

	args, err := s.ReadArgs()
	if err != nil {
		t.Fatalf("ReadArgs() error = %v", err)
	}
	if args != "" {
		t.Errorf("ReadArgs() = %q, want empty", args)
	}

	if err := os.WriteFile(filepath.Join(s.Dir, s.ArgsFile), []byte("--skip-docs\n"), 0644); err != nil {
		t.Fatal(err)
	}

	args, err = s.ReadArgs()
	if err != nil {
		t.Fatalf("ReadArgs() error = %v", err)
	}
	if args != "--skip-docs" {
		t.Errorf("ReadArgs() = %q, want %q", args, "--skip-docs")
	}
}

func TestSnapshotAndRestore(t *testing.T) {
	s := newTestStore(t)

	// Snapshot of a missing file is nil; restoring nil removes the file.
	snap, err := s.Snapshot(s.VersionFile)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap != nil {
		t.Errorf("Snapshot() = %q for missing file, want nil", snap)
	}

	if err := s.WriteVersion(version.Version("4")); err != nil {
		t.Fatal(err)
	}
	snap, err = s.Snapshot(s.VersionFile)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if string(snap) != "4\n" {
		t.Errorf("Snapshot() = %q, want %q", snap, "4\n")
	}

	if err := s.WriteVersion(version.Version("5")); err != nil {
		t.Fatal(err)
	}
	if err := s.RestoreRaw(s.VersionFile, snap); err != nil {
		t.Fatalf("RestoreRaw() error = %v", err)
	}
	v, err := s.ReadVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != "4" {
		t.Errorf("ReadVersion() after restore = %q, want %q", v, "4")
	}

	if err := s.RestoreRaw(s.VersionFile, nil); err != nil {
		t.Fatalf("RestoreRaw(nil) error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, s.VersionFile)); !os.IsNotExist(err) {
		t.Error("RestoreRaw(nil) did not remove the file")
	}
}
