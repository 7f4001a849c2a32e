// Package version parses dotted version strings of arbitrary segment count
// and orders them numerically, segment by segment.
package version

import (
	"strconv"
	"strings"
)

// Version is a parsed dotted version such as "2020.7.96456".
// The zero value is the empty version, which compares equal to "0".
type Version struct {
	raw      string
	segments []int
}

// Parse splits s on "." and converts each segment to a non-negative integer.
// Segments that are not numeric degrade to 0 instead of failing.
func Parse(s string) Version {
	v := Version{raw: s}
	if s == "" {
		return v
	}
	parts := strings.Split(s, ".")
	v.segments = make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			n = 0
		}
		v.segments[i] = n
	}
	return v
}

// String returns the text the version was parsed from.
func (v Version) String() string {
	return v.raw
}

// Segments returns a copy of the numeric segments.
func (v Version) Segments() []int {
	out := make([]int, len(v.segments))
	copy(out, v.segments)
	return out
}

// IsZero reports whether v was parsed from an empty string.
func (v Version) IsZero() bool {
	return len(v.segments) == 0
}

// Compare orders v against o ascending: -1 if v is older, 1 if newer, 0 if equal.
// A missing trailing segment counts as 0, so "1.2" equals "1.2.0".
func (v Version) Compare(o Version) int {
	n := max(len(v.segments), len(o.segments))
	for i := range n {
		a, b := segmentAt(v.segments, i), segmentAt(o.segments, i)
		switch {
		case a > b:
			return 1
		case a < b:
			return -1
		}
	}
	return 0
}

func segmentAt(segs []int, i int) int {
	if i < len(segs) {
		return segs[i]
	}
	return 0
}

// CompareVersions compares two version strings for a newest-first sort:
// it returns -1 when a is newer than b, 1 when a is older, and 0 when equal.
func CompareVersions(a, b string) int {
	return Descending(Parse(a), Parse(b))
}

// Descending is the newest-first ordering of already parsed versions.
func Descending(a, b Version) int {
	return b.Compare(a)
}
