package spec

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nulifyer/modget/internal/version"
)

func mustVer(t *testing.T, s string) version.SemVer {
	v, err := version.ParseSemVer(s)
	if err != nil {
		t.Fatalf("ParseSemVer(%q): %v", s, err)
	}
	return v
}

func TestMatches(t *testing.T) {
	s := Spec{Name: "A", Min: mustVer(t, "1.0.0"), Max: mustVer(t, "2.0.0")}
	cases := []struct {
		v    string
		want bool
	}{
		{"0.9.0", false},
		{"1.0.0", true},
		{"1.5.0", true},
		{"2.0.0", true},
		{"2.0.1", false},
	}
	for _, c := range cases {
		if got := s.Matches(mustVer(t, c.v)); got != c.want {
			t.Errorf("Matches(%s) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualsStructuralContainment(t *testing.T) {
	wide := Spec{Name: "A", Min: mustVer(t, "1.0.0"), Max: mustVer(t, "3.0.0")}
	narrow := Spec{Name: "A", Min: mustVer(t, "1.5.0"), Max: mustVer(t, "2.0.0")}
	if !wide.Equals(narrow) {
		t.Errorf("expected wide.Equals(narrow) since narrow's range is contained in wide's")
	}
	if narrow.Equals(wide) {
		t.Errorf("expected !narrow.Equals(wide) since wide is not contained in narrow")
	}
}

func TestEqualsRequiresSameIdentity(t *testing.T) {
	a := Spec{Name: "A", Min: mustVer(t, "1.0.0"), Max: mustVer(t, "1.0.0")}
	b := Spec{Name: "B", Min: mustVer(t, "1.0.0"), Max: mustVer(t, "1.0.0")}
	if a.Equals(b) {
		t.Errorf("different names must not be equal")
	}
}

func TestOverlaps(t *testing.T) {
	a := Spec{Name: "A", Min: mustVer(t, "1.0.0"), Max: mustVer(t, "2.0.0")}
	b := Spec{Name: "A", Min: mustVer(t, "1.5.0"), Max: mustVer(t, "3.0.0")}
	c := Spec{Name: "A", Min: mustVer(t, "5.0.0"), Max: mustVer(t, "6.0.0")}
	if !a.Overlaps(b) {
		t.Errorf("expected a.Overlaps(b)")
	}
	if a.Overlaps(c) {
		t.Errorf("expected !a.Overlaps(c)")
	}
}

func TestFromRangeMaterialisesDefaults(t *testing.T) {
	r, err := version.ParseRange("[1.0.0,]")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	s, err := FromRange("A", r)
	if err != nil {
		t.Fatalf("FromRange: %v", err)
	}
	if !s.Max.Equal(version.MaxVersion()) {
		t.Errorf("expected unbounded upper to materialise to MaxVersion, got %s", s.Max)
	}
	if !s.Min.Equal(mustVer(t, "1.0.0")) {
		t.Errorf("expected min 1.0.0, got %s", s.Min)
	}
}

func TestFromRangeClosesExclusiveBounds(t *testing.T) {
	r, err := version.ParseRange("[1.0.0,2.0.0)")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	s, err := FromRange("B", r)
	if err != nil {
		t.Fatalf("FromRange: %v", err)
	}
	if !s.Min.Equal(mustVer(t, "1.0.0")) {
		t.Errorf("expected min 1.0.0, got %s", s.Min)
	}
	if s.Matches(mustVer(t, "2.0.0")) {
		t.Errorf("exclusive upper bound 2.0.0 must not match")
	}
	if !s.Matches(mustVer(t, "1.999999999.0")) {
		t.Errorf("version just below the exclusive upper bound must match")
	}
}

func TestToHostSpecRequired(t *testing.T) {
	s := Spec{Name: "A", Min: mustVer(t, "1.2.3"), Max: mustVer(t, "1.2.3")}
	hs := s.ToHostSpec()
	if hs.RequiredVersion != "1.2.3" {
		t.Errorf("RequiredVersion = %q, want 1.2.3", hs.RequiredVersion)
	}
}

func TestToHostSpecUnconstrained(t *testing.T) {
	s := Spec{Name: "A", Min: version.MinVersion(), Max: version.MaxVersion()}
	hs := s.ToHostSpec()
	if hs.Version != "0.0.0" {
		t.Errorf("Version = %q, want 0.0.0", hs.Version)
	}
}

func TestCanonicalStringVariants(t *testing.T) {
	req := Spec{Name: "A", Min: mustVer(t, "1.0.0"), Max: mustVer(t, "1.0.0")}
	if got := req.CanonicalString(); got != "A@1.0.0" {
		t.Errorf("CanonicalString = %q, want A@1.0.0", got)
	}

	bounded := Spec{Name: "A", Min: mustVer(t, "1.0.0"), Max: mustVer(t, "2.0.0")}
	if got := bounded.CanonicalString(); got != "A:1.0.0-2.0.0" {
		t.Errorf("CanonicalString = %q, want A:1.0.0-2.0.0", got)
	}
}

func TestCanonicalStringIncludesGuid(t *testing.T) {
	g := uuid.New()
	s := Spec{Name: "A", Guid: g, Min: mustVer(t, "1.0.0"), Max: mustVer(t, "1.0.0")}
	want := "A[" + g.String() + "]@1.0.0"
	if got := s.CanonicalString(); got != want {
		t.Errorf("CanonicalString = %q, want %q", got, want)
	}
}

func TestParseDependencyRange(t *testing.T) {
	name, r, err := ParseDependencyRange("B:[1.0.0,2.0.0)")
	if err != nil {
		t.Fatalf("ParseDependencyRange: %v", err)
	}
	if name != "B" {
		t.Errorf("name = %q, want B", name)
	}
	if r.Min == nil || !r.Min.Equal(mustVer(t, "1.0.0")) {
		t.Errorf("min = %v, want 1.0.0", r.Min)
	}
	if r.MaxInclusive {
		t.Errorf("expected exclusive upper bound")
	}
}

func TestParseDependencyRangeAnyVersion(t *testing.T) {
	name, r, err := ParseDependencyRange("B:")
	if err != nil {
		t.Fatalf("ParseDependencyRange: %v", err)
	}
	if name != "B" || r.Min != nil || r.Max != nil {
		t.Errorf("expected unconstrained range for B, got name=%q r=%+v", name, r)
	}
}

func TestParseDependencyRangeNoColon(t *testing.T) {
	name, r, err := ParseDependencyRange("B")
	if err != nil {
		t.Fatalf("ParseDependencyRange: %v", err)
	}
	if name != "B" || r.Min != nil || r.Max != nil {
		t.Errorf("expected bare name with no range, got name=%q r=%+v", name, r)
	}
}
