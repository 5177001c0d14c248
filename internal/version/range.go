package version

import (
	"strings"

	"github.com/nulifyer/modget/internal/modgeterr"
)

// MinVersion is the default lower bound for a range whose lower side is
// unspecified.
func MinVersion() SemVer { return SemVer{0, 0, 0, "", ""} }

// MaxVersion is the default upper bound for a range whose upper side is
// unspecified.
func MaxVersion() SemVer { return SemVer{MaxInt32, MaxInt32, MaxInt32, "", ""} }

// Range is a NuGet version range: (min?, max?, minInclusive, maxInclusive).
// A nil Min/Max means "no bound on this side" — callers that need a
// concrete endpoint materialise it via MinVersion/MaxVersion themselves
// (spec §4.2's FromRange does exactly that).
type Range struct {
	Min          *SemVer
	Max          *SemVer
	MinInclusive bool
	MaxInclusive bool
}

// IsExact reports whether the range denotes a single required version
// (the "[a]" / bare-token forms).
func (r Range) IsExact() bool {
	return r.Min != nil && r.Max != nil && r.MinInclusive && r.MaxInclusive && r.Min.Equal(*r.Max)
}

// ParseRange parses a NuGet version range literal per spec §3.2:
//
//	X          exact [X,X]
//	[a,b]      inclusive both
//	[a,b)      inclusive lower, exclusive upper
//	(a,b]      exclusive lower, inclusive upper
//	(a,b)      exclusive both
//	[a,]/(a,]  unbounded upper (MaxInclusive is false)
//	[,b]/[,b)  unbounded lower
//	[a]        exact, same as bare token X
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, &modgeterr.InvalidArgumentError{Value: s, Reason: "empty range"}
	}

	if s[0] != '[' && s[0] != '(' {
		v, err := ParseEither(s)
		if err != nil {
			return Range{}, err
		}
		return Range{Min: &v, Max: &v, MinInclusive: true, MaxInclusive: true}, nil
	}

	if len(s) < 2 {
		return Range{}, &modgeterr.InvalidArgumentError{Value: s, Reason: "unterminated range"}
	}
	minIncl := s[0] == '['
	last := s[len(s)-1]
	if last != ']' && last != ')' {
		return Range{}, &modgeterr.InvalidArgumentError{Value: s, Reason: "range must end with ] or )"}
	}
	maxIncl := last == ']'
	inner := s[1 : len(s)-1]

	if !strings.Contains(inner, ",") {
		// "[a]" form: exact, identical to the bare-token case.
		v, err := ParseEither(strings.TrimSpace(inner))
		if err != nil {
			return Range{}, err
		}
		return Range{Min: &v, Max: &v, MinInclusive: true, MaxInclusive: true}, nil
	}

	parts := strings.SplitN(inner, ",", 2)
	lo := strings.TrimSpace(parts[0])
	hi := strings.TrimSpace(parts[1])

	var min, max *SemVer
	if lo != "" {
		v, err := ParseEither(lo)
		if err != nil {
			return Range{}, err
		}
		min = &v
	}
	if hi != "" {
		v, err := ParseEither(hi)
		if err != nil {
			return Range{}, err
		}
		max = &v
	} else {
		// An empty upper side is open towards +infinity, never inclusive.
		maxIncl = false
	}

	return Range{Min: min, Max: max, MinInclusive: minIncl, MaxInclusive: maxIncl}, nil
}

// Decrement returns the next version strictly below v, per spec §4.1:
//
//  1. patch > 0  -> (M, m, patch-1)
//  2. else minor > 0 -> (M, m-1, MaxInt32)
//  3. else major > 0 -> (M-1, MaxInt32, MaxInt32)
//  4. else error
//
// Pre-release and build labels are dropped (a caller-visible warning is
// the caller's responsibility; this function just returns the bare
// decremented triple).
func Decrement(v SemVer) (SemVer, error) {
	switch {
	case v.Patch > 0:
		return SemVer{Major: v.Major, Minor: v.Minor, Patch: v.Patch - 1}, nil
	case v.Minor > 0:
		return SemVer{Major: v.Major, Minor: v.Minor - 1, Patch: MaxInt32}, nil
	case v.Major > 0:
		return SemVer{Major: v.Major - 1, Minor: MaxInt32, Patch: MaxInt32}, nil
	default:
		return SemVer{}, &modgeterr.InvalidArgumentError{Value: v.String(), Reason: "cannot decrement 0.0.0"}
	}
}

// Increment returns the next version strictly above v, symmetric with
// Decrement: saturation at MaxInt32 cascades to the next-higher field.
func Increment(v SemVer) (SemVer, error) {
	switch {
	case v.Patch < MaxInt32:
		return SemVer{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	case v.Minor < MaxInt32:
		return SemVer{Major: v.Major, Minor: v.Minor + 1, Patch: 0}, nil
	case v.Major < MaxInt32:
		return SemVer{Major: v.Major + 1, Minor: 0, Patch: 0}, nil
	default:
		return SemVer{}, &modgeterr.InvalidArgumentError{Value: v.String(), Reason: "cannot increment max version"}
	}
}
