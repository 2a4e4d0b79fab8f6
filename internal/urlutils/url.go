// Package urlutils validates git remote URLs before they are written
// into repository configuration. It accepts the transports git itself
// accepts: https, ssh (URL and scp-like forms), git, and local paths.
package urlutils

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrInvalidURL indicates that the provided URL is not valid
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrInvalidScheme indicates an unsupported transport scheme
	ErrInvalidScheme = errors.New("unsupported URL scheme")

	// ErrInvalidPath indicates that the URL carries no repository path
	ErrInvalidPath = errors.New("invalid repository path")

	// scp-like form: user@host:path
	scpLikeRegex = regexp.MustCompile(`^([a-zA-Z0-9_.-]+)@([a-zA-Z0-9][a-zA-Z0-9.-]*):(.+)$`)

	allowedSchemes = map[string]bool{
		"https": true,
		"ssh":   true,
		"git":   true,
		"file":  true,
	}
)

// Remote is a parsed git remote location.
type Remote struct {
	Scheme string // https, ssh, git, file
	Host   string // empty for local paths
	Path   string // repository path on the host or filesystem
}

// Parse parses and validates a git remote URL. It accepts:
//   - https://host/path/repo.git
//   - ssh://user@host/path/repo
//   - git://host/path/repo
//   - user@host:path/repo (scp-like)
//   - file:///path/repo and bare local paths
func Parse(raw string) (*Remote, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	if m := scpLikeRegex.FindStringSubmatch(raw); m != nil {
		return &Remote{Scheme: "ssh", Host: m[2], Path: m[3]}, nil
	}

	if !strings.Contains(raw, "://") {
		// A bare local path. Git treats it like file://.
		return &Remote{Scheme: "file", Path: raw}, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !allowedSchemes[parsed.Scheme] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScheme, parsed.Scheme)
	}
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return nil, fmt.Errorf("%w: URL must include a repository path", ErrInvalidPath)
	}
	if parsed.Scheme != "file" && parsed.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return &Remote{Scheme: parsed.Scheme, Host: parsed.Host, Path: path}, nil
}

// Validate checks whether raw is a usable git remote URL.
func Validate(raw string) error {
	_, err := Parse(raw)
	return err
}

// Sanitize removes any embedded credentials from a remote URL before it
// is logged or persisted. scp-like and local forms pass through
// unchanged.
func Sanitize(raw string) string {
	if !strings.Contains(raw, "://") {
		return raw
	}
	if u, err := url.Parse(raw); err == nil {
		u.User = nil
		return u.String()
	}
	return raw
}
