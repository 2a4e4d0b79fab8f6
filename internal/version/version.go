// Package version implements the dotted release version scalar and its
// increment rules.
//
// A version is a dot-separated sequence of non-negative integers. A
// version with no separator identifies the mainline (a bare major
// number). A version ending in a bare separator, such as "3.", is a
// pre-release marker: the line it lives on has not had a real release
// yet. Historical version files are operator controlled, so any string
// parses; unparsable components count as zero when incremented.
package version

import (
	"strconv"
	"strings"
)

// Separator is the component separator in persisted version scalars.
const Separator = "."

// Version is a persisted release version scalar.
type Version string

func (v Version) String() string {
	return string(v)
}

// IsMainline reports whether v is a bare mainline version with no
// sub-version components.
func (v Version) IsMainline() bool {
	return !strings.Contains(string(v), Separator)
}

// IsPreRelease reports whether v ends in a bare separator, marking a
// line that has not had a release since it was branched.
func (v Version) IsPreRelease() bool {
	return strings.HasSuffix(string(v), Separator)
}

// Split returns everything up to the last separator and the final
// component. The prefix is empty for mainline versions; the smallest
// component is empty for pre-release markers.
func (v Version) Split() (prefix, smallest string) {
	i := strings.LastIndex(string(v), Separator)
	if i < 0 {
		return "", string(v)
	}
	return string(v)[:i], string(v)[i+1:]
}

// Next returns the conventional successor of v:
//
//	3    -> 4      (mainline major bump)
//	3.2  -> 3.3    (sub-version bump)
//	3.   -> 3.0    (first release on a fresh branch)
func (v Version) Next() Version {
	prefix, smallest := v.Split()
	if prefix == "" && !v.IsPreRelease() && v.IsMainline() {
		return Version(strconv.Itoa(componentValue(smallest) + 1))
	}
	if smallest == "" {
		// Pre-release marker: the next smallest is 0, and the
		// separator is already in place.
		return Version(string(v) + "0")
	}
	return Version(prefix + Separator + strconv.Itoa(componentValue(smallest)+1))
}

// NextSlidingWindow returns the successor of v under the sliding-window
// branch policy: the current least-significant component is frozen into
// the prefix, a fresh counter takes its place at 1, and the trailing
// separator marks the result provisional until the first release on the
// line. The branch created alongside is named from v unchanged.
//
//	3    -> 3.1.
//	3.2  -> 3.2.1.
//
// Pre-release markers have no sliding-window successor; callers must
// refuse to branch from them before calling this.
func (v Version) NextSlidingWindow() Version {
	return Version(string(v) + Separator + "1" + Separator)
}

// PreRelease returns v marked as a pre-release base for a just-created
// branch: "3" -> "3.".
func (v Version) PreRelease() Version {
	if v.IsPreRelease() {
		return v
	}
	return Version(string(v) + Separator)
}

// componentValue parses a single component. Content never fails: a
// component that does not parse as a non-negative integer counts as 0.
func componentValue(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
