// Package artifact reads and writes the persisted release scalars: the
// version file, the optional build-number file and the optional
// extra-args blob. Each file holds a single line with a trailing
// newline. Writes go through a temp-file rename so the transaction can
// re-read a consistent value on its rollback paths.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NicabarNimble/go-gitrelease/internal/errors"
	"github.com/NicabarNimble/go-gitrelease/internal/version"
)

// DefaultVersion is the value assumed when no version file exists yet.
const DefaultVersion = version.Version("1")

// Store resolves and persists the release scalars of one repository.
type Store struct {
	Dir         string // Repository root
	VersionFile string // Required, relative to Dir
	BuildFile   string // Optional build counter, relative to Dir
	ArgsFile    string // Optional free-text blob, relative to Dir
}

// NewStore creates a Store rooted at dir with the given file names.
func NewStore(dir, versionFile, buildFile, argsFile string) *Store {
	return &Store{
		Dir:         dir,
		VersionFile: versionFile,
		BuildFile:   buildFile,
		ArgsFile:    argsFile,
	}
}

// VersionPath returns the version file path relative to the repository
// root, as used in commit pathspecs.
func (s *Store) VersionPath() string { return s.VersionFile }

// BuildPath returns the build file path relative to the repository root.
func (s *Store) BuildPath() string { return s.BuildFile }

// ArgsPath returns the extra-args file path relative to the repository root.
func (s *Store) ArgsPath() string { return s.ArgsFile }

// ReadVersion returns the persisted version, defaulting to "1" when the
// file does not exist. Content never fails to parse; only an unreadable
// file is an error.
func (s *Store) ReadVersion() (version.Version, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, s.VersionFile))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultVersion, nil
		}
		return "", errors.New("read-version", fmt.Errorf("failed to read version file: %w", err))
	}
	return version.Version(strings.TrimRight(string(data), "\r\n")), nil
}

// WriteVersion persists v as a single line with a trailing newline.
func (s *Store) WriteVersion(v version.Version) error {
	if err := s.writeScalar(s.VersionFile, v.String()); err != nil {
		return errors.New("write-version", err)
	}
	return nil
}

// HasBuild reports whether a build-number file is configured and present.
func (s *Store) HasBuild() bool {
	if s.BuildFile == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.Dir, s.BuildFile))
	return err == nil
}

// ReadBuild returns the persisted build counter, defaulting to 0 when
// the file does not exist. A counter that does not parse counts as 0,
// mirroring the version component rule.
func (s *Store) ReadBuild() (int, error) {
	if s.BuildFile == "" {
		return 0, nil
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, s.BuildFile))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.New("read-build", fmt.Errorf("failed to read build file: %w", err))
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// WriteBuild persists the build counter.
func (s *Store) WriteBuild(n int) error {
	if s.BuildFile == "" {
		return errors.New("write-build", fmt.Errorf("no build file configured"))
	}
	if err := s.writeScalar(s.BuildFile, strconv.Itoa(n)); err != nil {
		return errors.New("write-build", err)
	}
	return nil
}

// ReadArgs returns the extra-args blob, or "" when the file is absent
// or not configured. The content is free text recorded for audit in
// commit messages.
func (s *Store) ReadArgs() (string, error) {
	if s.ArgsFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, s.ArgsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.New("read-args", fmt.Errorf("failed to read extra-args file: %w", err))
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// RestoreRaw writes previously captured raw bytes back to a scalar
// file, used when a rollback has to reproduce the pre-commit state
// exactly. A nil snapshot removes the file.
func (s *Store) RestoreRaw(name string, snapshot []byte) error {
	path := filepath.Join(s.Dir, name)
	if snapshot == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.New("restore", fmt.Errorf("failed to remove %s: %w", name, err))
		}
		return nil
	}
	if err := os.WriteFile(path, snapshot, 0644); err != nil {
		return errors.New("restore", fmt.Errorf("failed to restore %s: %w", name, err))
	}
	return nil
}

// Snapshot captures the raw bytes of a scalar file, or nil when the
// file does not exist.
func (s *Store) Snapshot(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New("snapshot", fmt.Errorf("failed to snapshot %s: %w", name, err))
	}
	return data, nil
}

func (s *Store) writeScalar(name, value string) error {
	path := filepath.Join(s.Dir, name)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(name)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
