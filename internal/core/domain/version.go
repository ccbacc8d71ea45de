package domain

import (
	"strconv"
	"strings"
)

// Version is a parsed package version in epoch:upstream-release form.
type Version struct {
	Epoch      int
	Upstream   string
	Release    int
	HasRelease bool
}

// ParseVersion splits a version string into epoch, upstream and release parts.
// Missing epoch defaults to 0, missing release to 1. An empty string or a
// non-numeric epoch is malformed.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrMalformedRecord
	}

	v := Version{Epoch: 0, Release: 1}
	rest := s

	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		epoch, err := strconv.Atoi(rest[:idx])
		if err != nil || epoch < 0 {
			return Version{}, ErrMalformedRecord
		}
		v.Epoch = epoch
		rest = rest[idx+1:]
	}

	if idx := strings.LastIndexByte(rest, '-'); idx >= 0 {
		release, err := strconv.Atoi(rest[idx+1:])
		if err == nil && release >= 0 {
			v.Release = release
			v.HasRelease = true
			rest = rest[:idx]
		}
	}

	if rest == "" {
		return Version{}, ErrMalformedRecord
	}
	v.Upstream = rest

	return v, nil
}

// String reassembles the canonical version string.
func (v Version) String() string {
	var b strings.Builder
	if v.Epoch > 0 {
		b.WriteString(strconv.Itoa(v.Epoch))
		b.WriteByte(':')
	}
	b.WriteString(v.Upstream)
	if v.HasRelease {
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(v.Release))
	}
	return b.String()
}

// CompareVersions imposes a total order on version strings.
// It returns -1, 0 or 1 as a sorts before, equal to, or after b.
// A malformed version compares less than any well-formed one, and two
// malformed versions compare equal; comparison never fails.
func CompareVersions(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)

	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}

	return va.Compare(vb)
}

// Compare orders two parsed versions: epoch first, then upstream segments,
// then release. Release only participates when both sides carry one.
func (v Version) Compare(o Version) int {
	if v.Epoch != o.Epoch {
		if v.Epoch < o.Epoch {
			return -1
		}
		return 1
	}

	if c := compareUpstream(v.Upstream, o.Upstream); c != 0 {
		return c
	}

	if v.HasRelease && o.HasRelease {
		switch {
		case v.Release < o.Release:
			return -1
		case v.Release > o.Release:
			return 1
		}
	}
	return 0
}

// compareUpstream walks both strings segment by segment, where a segment is
// a maximal run of digits or of letters. Numeric segments compare
// numerically, alphabetic ones lexically, and a numeric segment always beats
// an alphabetic one. A tilde introduces a segment that compares less than
// the same position being absent, so 1.0~beta sorts before 1.0.
func compareUpstream(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) || ib < len(b) {
		// Skip separator runs (anything that is not alphanumeric or tilde).
		for ia < len(a) && !isAlnum(a[ia]) && a[ia] != '~' {
			ia++
		}
		for ib < len(b) && !isAlnum(b[ib]) && b[ib] != '~' {
			ib++
		}

		// Tilde sorts before everything, including the end of the string.
		ta, tb := ia < len(a) && a[ia] == '~', ib < len(b) && b[ib] == '~'
		if ta || tb {
			if ta && tb {
				ia++
				ib++
				continue
			}
			if ta {
				return -1
			}
			return 1
		}

		if ia >= len(a) || ib >= len(b) {
			break
		}

		segA, numA := takeSegment(a, &ia)
		segB, numB := takeSegment(b, &ib)

		if numA != numB {
			// The numeric segment is the newer one.
			if numA {
				return 1
			}
			return -1
		}

		var c int
		if numA {
			c = compareNumeric(segA, segB)
		} else {
			c = strings.Compare(segA, segB)
		}
		if c != 0 {
			return c
		}
	}

	// One string ran out. The remainder decides: an alphabetic remainder
	// sorts before absence (1.0a < 1.0), a numeric one after (1.0.1 > 1.0).
	switch {
	case ia >= len(a) && ib >= len(b):
		return 0
	case ia >= len(a):
		if isDigit(b[ib]) {
			return -1
		}
		return 1
	default:
		if isDigit(a[ia]) {
			return 1
		}
		return -1
	}
}

// takeSegment consumes a maximal digit or letter run starting at *i.
func takeSegment(s string, i *int) (seg string, numeric bool) {
	start := *i
	if isDigit(s[start]) {
		for *i < len(s) && isDigit(s[*i]) {
			*i++
		}
		return s[start:*i], true
	}
	for *i < len(s) && isAlpha(s[*i]) {
		*i++
	}
	return s[start:*i], false
}

func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
