package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nulifyer/modget/internal/modgeterr"
)

// Build-label markers that tell ToClassical how a SemVer produced by
// ToSemVer maps back onto its originating classical shape. Their presence
// (anywhere in the build label) is what signals "this SemVer originated
// from a classical version" at all; their absence means "already a plain
// SemVer literal".
const (
	systemVersionMarker = "SYSTEMVERSION"
	noBuildMarker       = "NOBUILD." + systemVersionMarker
	hasRevisionMarker   = "HASREVISION." + systemVersionMarker
)

// preReleaseWidth is the zero-padded width used to encode a classical
// revision as a SemVer pre-release label, chosen to preserve lexicographic
// ordering up to MaxInt32 (10 digits).
const preReleaseWidth = 10

// ToSemVer converts a classical version to its SemVer representation.
// See spec §3.1 for the three-way shape table; the build label encodes
// which shape produced the result so ToClassical can invert it exactly.
func ToSemVer(c Classical) SemVer {
	if c.Build == nil {
		// M.m (no build, no revision) -> M.m.0, tagged NOBUILD.
		return SemVer{Major: c.Major, Minor: c.Minor, Patch: 0, Build: noBuildMarker}
	}
	if c.Revision == nil {
		// M.m.p (no revision) -> M.m.p, untagged (direct mapping).
		return SemVer{Major: c.Major, Minor: c.Minor, Patch: *c.Build}
	}
	// M.m.p.r -> M.m.(p+1), revision folded into a zero-padded pre-release
	// label so it sorts below the next patch but above the bare patch.
	return SemVer{
		Major:      c.Major,
		Minor:      c.Minor,
		Patch:      *c.Build + 1,
		PreRelease: zeroPad(*c.Revision, preReleaseWidth),
		Build:      hasRevisionMarker,
	}
}

// ToClassical inverts ToSemVer. A SemVer whose build label carries no
// SYSTEMVERSION marker did not originate from a classical version and
// maps directly onto M.m.p.
func ToClassical(v SemVer) (Classical, error) {
	if !strings.Contains(v.Build, systemVersionMarker) {
		if v.PreRelease != "" {
			return Classical{}, &modgeterr.InternalError{Reason: fmt.Sprintf("semver %s carries a pre-release label and has no classical form", v)}
		}
		patch := v.Patch
		return Classical{Major: v.Major, Minor: v.Minor, Build: &patch}, nil
	}
	if strings.Contains(v.Build, "NOBUILD") {
		return Classical{Major: v.Major, Minor: v.Minor}, nil
	}
	if strings.Contains(v.Build, "HASREVISION") {
		r, err := strconv.Atoi(v.PreRelease)
		if err != nil {
			return Classical{}, &modgeterr.InternalError{Reason: fmt.Sprintf("HASREVISION semver %s has non-numeric pre-release %q", v, v.PreRelease)}
		}
		patch := v.Patch - 1
		return Classical{Major: v.Major, Minor: v.Minor, Build: &patch, Revision: &r}, nil
	}
	return Classical{}, &modgeterr.InternalError{Reason: fmt.Sprintf("semver %s carries an unrecognised SYSTEMVERSION build label %q", v, v.Build)}
}

// DisplayString renders v the way it should appear on disk or in a
// user-facing listing: its classical form when v originated from one
// (round-tripping through ToClassical), its plain SemVer form otherwise.
// Every site that turns a resolved or required version into a path
// component or summary line should call this instead of SemVer.String,
// so a classical-origin version installs under the same directory name
// internal/localscan's ParseClassical-based scan later expects.
func DisplayString(v SemVer) string {
	if c, err := ToClassical(v); err == nil {
		return c.String()
	}
	return v.String()
}

// ParseEither tries to parse s as a classical version first, converting it
// to SemVer on success; if that fails, it falls back to parsing s as a
// literal SemVer.
func ParseEither(s string) (SemVer, error) {
	if c, err := ParseClassical(s); err == nil {
		return ToSemVer(c), nil
	}
	return ParseSemVer(s)
}

func zeroPad(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
