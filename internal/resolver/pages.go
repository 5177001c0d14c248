package resolver

import (
	"github.com/nulifyer/modget/internal/spec"
	"github.com/nulifyer/modget/internal/version"
)

// pageMatches implements the page selection predicate of §4.5.1: does
// page [lower,upper] possibly contain a version satisfying s?
func pageMatches(s spec.Spec, lower, upper version.SemVer) bool {
	if s.Required() {
		v := s.Min
		return v.GreaterThanOrEqual(lower) && v.LessThanOrEqual(upper)
	}
	lo, hi := s.Min, s.Max
	subsumes := lo.LessThanOrEqual(lower) && hi.GreaterThanOrEqual(upper)
	lowerInPage := lo.GreaterThanOrEqual(lower) && lo.LessThanOrEqual(upper)
	upperInPage := hi.GreaterThanOrEqual(lower) && hi.LessThanOrEqual(upper)
	return subsumes || lowerInPage || upperInPage
}

// admitDependency implements §4.5.2's monotonic admission filter: a
// discovered dependency d is enqueued only if no already-planned version
// of d.Name already satisfies it.
func admitDependency(d spec.Spec, planned []spec.Spec) bool {
	if len(planned) == 0 {
		return true
	}

	top := planned[0].Min
	for _, p := range planned[1:] {
		if p.Min.GreaterThan(top) {
			top = p.Min
		}
	}

	if !d.Min.Equal(version.MinVersion()) && d.Min.GreaterThan(top) {
		return true
	}
	if !d.Max.Equal(version.MaxVersion()) && d.Max.LessThan(top) {
		return true
	}
	if d.Required() {
		for _, p := range planned {
			if p.Min.Equal(d.Min) {
				return false
			}
		}
		return true
	}
	return false
}
