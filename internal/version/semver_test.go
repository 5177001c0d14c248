package version

import "testing"

func TestParseSemVerRoundTrip(t *testing.T) {
	cases := []string{
		"1.2.3",
		"1.2.3-beta",
		"1.2.3-beta.1",
		"1.2.3+build.5",
		"1.2.3-beta.1+build.5",
		"0.0.0",
	}
	for _, c := range cases {
		v, err := ParseSemVer(c)
		if err != nil {
			t.Fatalf("ParseSemVer(%q) returned error: %v", c, err)
		}
		if got := v.String(); got != c {
			t.Errorf("ParseSemVer(%q).String() = %q, want %q", c, got, c)
		}
	}
}

func TestParseSemVerRejectsClassicalShapes(t *testing.T) {
	for _, c := range []string{"1.2", "1.2.3.4", "", "a.b.c"} {
		if _, err := ParseSemVer(c); err == nil {
			t.Errorf("ParseSemVer(%q) expected error, got nil", c)
		}
	}
}

func TestCompareOrdering(t *testing.T) {
	ordered := []string{
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
		"1.0.1",
		"1.1.0",
		"2.0.0",
	}
	var parsed []SemVer
	for _, s := range ordered {
		v, err := ParseSemVer(s)
		if err != nil {
			t.Fatalf("ParseSemVer(%q): %v", s, err)
		}
		parsed = append(parsed, v)
	}
	for i := 0; i < len(parsed)-1; i++ {
		a, b := parsed[i], parsed[i+1]
		if !a.LessThan(b) {
			t.Errorf("expected %s < %s", a, b)
		}
		if !b.GreaterThanOrEqual(a) {
			t.Errorf("expected %s >= %s", b, a)
		}
		if a.Equal(b) {
			t.Errorf("expected %s != %s", a, b)
		}
	}
}

func TestCompareIgnoresBuildMetadata(t *testing.T) {
	a, _ := ParseSemVer("1.2.3+build.1")
	b, _ := ParseSemVer("1.2.3+build.2")
	if !a.Equal(b) {
		t.Errorf("expected %s == %s (build metadata ignored)", a, b)
	}
}

func TestIsPreRelease(t *testing.T) {
	v, _ := ParseSemVer("1.0.0-rc.1")
	if !v.IsPreRelease() {
		t.Errorf("expected %s to be a pre-release", v)
	}
	v2, _ := ParseSemVer("1.0.0")
	if v2.IsPreRelease() {
		t.Errorf("expected %s to not be a pre-release", v2)
	}
}
