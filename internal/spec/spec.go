// Package spec implements the module specification (identity + version
// constraint) at the center of the resolver and installer pipeline.
// Grounded on guget/Nugetservice.go's PackageInfo/PackageVersion shapes,
// extended with the structural-containment equality and canonical hash
// form this design layers on top.
package spec

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/nulifyer/modget/internal/version"
)

// Spec is a module identity plus a version constraint: a range
// [Min, Max] that a concrete resolved module version must fall within.
// DownloadUri is populated only once the resolver has attached a concrete
// archive location to a required (Min == Max) spec.
type Spec struct {
	Name        string
	Guid        uuid.UUID
	Min         version.SemVer
	Max         version.SemVer
	DownloadUri *url.URL
	// ProjectURL is the registry-advertised project/homepage link, if
	// any. Cosmetic only; it plays no part in matching or plan keying.
	ProjectURL string
}

// Required reports whether this spec names a single exact version.
func (s Spec) Required() bool { return s.Min.Equal(s.Max) }

// Matches reports whether v falls within [Min, Max] inclusive.
func (s Spec) Matches(v version.SemVer) bool {
	return v.GreaterThanOrEqual(s.Min) && v.LessThanOrEqual(s.Max)
}

// Overlaps reports whether s and other could be satisfied by some common
// version, restricted to specs naming the same module identity.
func (s Spec) Overlaps(other Spec) bool {
	if s.Name != other.Name || s.Guid != other.Guid {
		return false
	}
	return s.Min.LessThan(other.Max) && s.Max.GreaterThan(other.Min)
}

// Equals implements structural containment: a.Equals(b) holds when b is
// the same module identity and b's range lies within a's.
func (a Spec) Equals(b Spec) bool {
	return a.Name == b.Name &&
		a.Guid == b.Guid &&
		b.Min.GreaterThanOrEqual(a.Min) &&
		b.Max.LessThanOrEqual(a.Max)
}

// CompareVersion returns 0 if v lies within [Min,Max], +1 if v is below
// Min, -1 if v is above Max. Comparisons against a bare version are only
// meaningful when the caller already knows at least one side is required;
// the resolver never relies on ordering between two unconstrained ranges.
func (s Spec) CompareVersion(v version.SemVer) int {
	switch {
	case v.LessThan(s.Min):
		return 1
	case v.GreaterThan(s.Max):
		return -1
	default:
		return 0
	}
}

// FromRange builds a Spec for name from a parsed range, materialising any
// absent bound to the default min/max version per spec §3.2. Spec only
// ever carries a closed [Min,Max] form, so an exclusive endpoint is first
// stepped to its nearest closed equivalent via Increment/Decrement per
// §4.1's boundary arithmetic: an exclusive lower bound becomes the next
// version above it, an exclusive upper bound the next version below it.
func FromRange(name string, r version.Range) (Spec, error) {
	min := version.MinVersion()
	if r.Min != nil {
		min = *r.Min
		if !r.MinInclusive {
			var err error
			min, err = version.Increment(min)
			if err != nil {
				return Spec{}, err
			}
		}
	}
	max := version.MaxVersion()
	if r.Max != nil {
		max = *r.Max
		if !r.MaxInclusive {
			var err error
			max, err = version.Decrement(max)
			if err != nil {
				return Spec{}, err
			}
		}
	}
	return Spec{Name: name, Min: min, Max: max}, nil
}

// HostSpec is the projection of a Spec onto the shape a host module
// manager's dependency declaration takes: either a single required
// version, or an optional (minimum, maximum) pair.
type HostSpec struct {
	Name            string
	RequiredVersion string
	Version         string
	MaximumVersion  string
}

// ToHostSpec projects s onto the host shape. If both bounds sit at their
// defaults (unconstrained), it emits an explicit Version of "0.0.0"
// rather than leaving every field blank.
func (s Spec) ToHostSpec() HostSpec {
	if s.Required() {
		return HostSpec{Name: s.Name, RequiredVersion: version.DisplayString(s.Min)}
	}
	min, max := version.MinVersion(), version.MaxVersion()
	if s.Min.Equal(min) && s.Max.Equal(max) {
		return HostSpec{Name: s.Name, Version: "0.0.0"}
	}
	hs := HostSpec{Name: s.Name}
	if !s.Min.Equal(min) {
		hs.Version = version.DisplayString(s.Min)
	}
	if !s.Max.Equal(max) {
		hs.MaximumVersion = version.DisplayString(s.Max)
	}
	return hs
}

// CanonicalString renders the canonical hash/identity form used by Hash
// and in diagnostics: Name[guid]{@req | <max | >min | :min-max}.
func (s Spec) CanonicalString() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if s.Guid != uuid.Nil {
		b.WriteByte('[')
		b.WriteString(s.Guid.String())
		b.WriteByte(']')
	}
	min, max := version.MinVersion(), version.MaxVersion()
	switch {
	case s.Required():
		b.WriteByte('@')
		b.WriteString(s.Min.String())
	case s.Max.Equal(max) && !s.Min.Equal(min):
		b.WriteByte('>')
		b.WriteString(s.Min.String())
	case s.Min.Equal(min) && !s.Max.Equal(max):
		b.WriteByte('<')
		b.WriteString(s.Max.String())
	default:
		b.WriteByte(':')
		b.WriteString(s.Min.String())
		b.WriteByte('-')
		b.WriteString(s.Max.String())
	}
	return b.String()
}

// Hash returns a stable hash of the spec's canonical string form, used as
// a cheap dedup/set key alongside structural equality checks.
func (s Spec) Hash() uint64 {
	return fnv64(s.CanonicalString())
}

func fnv64(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// ParseDependencyRange parses the "id:range" colon-separated dependency
// syntax from §6. An empty range segment means "any version".
func ParseDependencyRange(s string) (name string, r version.Range, err error) {
	idx := strings.IndexByte(s, ':')
	if idx == -1 {
		return s, version.Range{}, nil
	}
	name = s[:idx]
	rangeStr := strings.TrimSpace(s[idx+1:])
	if rangeStr == "" {
		return name, version.Range{}, nil
	}
	r, err = version.ParseRange(rangeStr)
	return name, r, err
}
