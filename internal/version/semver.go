package version

import (
	"strconv"
	"strings"

	"github.com/nulifyer/modget/internal/modgeterr"
)

// SemVer is a SemVer 2.0 version: Major.Minor.Patch[-PreRelease][+Build].
// Build metadata never affects comparison, per SemVer 2.0 §10.
type SemVer struct {
	Major      int
	Minor      int
	Patch      int
	PreRelease string
	Build      string
}

// ParseSemVer parses a SemVer 2.0 literal. Unlike ParseClassical, exactly
// three numeric parts are required.
func ParseSemVer(s string) (SemVer, error) {
	if s == "" {
		return SemVer{}, &modgeterr.InvalidArgumentError{Value: s, Reason: "empty version string"}
	}
	raw := s

	build := ""
	if idx := strings.IndexByte(s, '+'); idx != -1 {
		build = s[idx+1:]
		s = s[:idx]
	}
	pre := ""
	if idx := strings.IndexByte(s, '-'); idx != -1 {
		pre = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return SemVer{}, &modgeterr.InvalidArgumentError{Value: raw, Reason: "expected Major.Minor.Patch"}
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return SemVer{}, &modgeterr.InvalidArgumentError{Value: raw, Reason: "part " + p + " is not a non-negative integer"}
		}
		nums[i] = n
	}
	return SemVer{Major: nums[0], Minor: nums[1], Patch: nums[2], PreRelease: pre, Build: build}, nil
}

// String renders the canonical SemVer form (build metadata included).
func (v SemVer) String() string {
	s := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
	if v.PreRelease != "" {
		s += "-" + v.PreRelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

func (v SemVer) IsPreRelease() bool { return v.PreRelease != "" }

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other, per SemVer 2.0 §11 precedence (build metadata ignored).
func (v SemVer) Compare(other SemVer) int {
	if v.Major != other.Major {
		return intCompare(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return intCompare(v.Minor, other.Minor)
	}
	if v.Patch != other.Patch {
		return intCompare(v.Patch, other.Patch)
	}
	if v.PreRelease == "" && other.PreRelease != "" {
		return 1
	}
	if v.PreRelease != "" && other.PreRelease == "" {
		return -1
	}
	return comparePreRelease(v.PreRelease, other.PreRelease)
}

// IsNewerThan returns true if v is strictly newer than other.
func (v SemVer) IsNewerThan(other SemVer) bool { return v.Compare(other) > 0 }

func (v SemVer) LessThan(other SemVer) bool        { return v.Compare(other) < 0 }
func (v SemVer) LessThanOrEqual(other SemVer) bool { return v.Compare(other) <= 0 }
func (v SemVer) GreaterThan(other SemVer) bool     { return v.Compare(other) > 0 }
func (v SemVer) GreaterThanOrEqual(o SemVer) bool  { return v.Compare(o) >= 0 }
func (v SemVer) Equal(other SemVer) bool           { return v.Compare(other) == 0 }

// comparePreRelease compares two pre-release strings per SemVer 2.0 §11:
// identifiers compared left-to-right, numeric ids as integers, alphanumeric
// ids lexically, numeric < alphanumeric, fewer fields < more.
func comparePreRelease(a, b string) int {
	if a == b {
		return 0
	}
	ap := strings.Split(a, ".")
	bp := strings.Split(b, ".")
	n := len(ap)
	if len(bp) < n {
		n = len(bp)
	}
	for i := 0; i < n; i++ {
		ai, aErr := strconv.Atoi(ap[i])
		bi, bErr := strconv.Atoi(bp[i])
		switch {
		case aErr == nil && bErr == nil:
			if ai != bi {
				return intCompare(ai, bi)
			}
		case aErr == nil:
			return -1
		case bErr == nil:
			return 1
		default:
			if ap[i] != bp[i] {
				if ap[i] > bp[i] {
					return 1
				}
				return -1
			}
		}
	}
	return intCompare(len(ap), len(bp))
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
