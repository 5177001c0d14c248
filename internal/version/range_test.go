package version

import "testing"

func TestParseRangeBareToken(t *testing.T) {
	r, err := ParseRange("1.2.3")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if !r.IsExact() {
		t.Errorf("expected exact range for bare token")
	}
	if r.Min.String() != "1.2.3" || r.Max.String() != "1.2.3" {
		t.Errorf("got min=%s max=%s", r.Min, r.Max)
	}
}

func TestParseRangeBrackets(t *testing.T) {
	cases := []struct {
		s       string
		minIncl bool
		maxIncl bool
		hasMin  bool
		hasMax  bool
	}{
		{"[1.0.0,2.0.0]", true, true, true, true},
		{"[1.0.0,2.0.0)", true, false, true, true},
		{"(1.0.0,2.0.0]", false, true, true, true},
		{"(1.0.0,2.0.0)", false, false, true, true},
		{"[1.0.0,]", true, false, true, false},
		{"(1.0.0,]", false, false, true, false},
		{"[,2.0.0]", true, true, false, true},
		{"[,2.0.0)", true, false, false, true},
	}
	for _, c := range cases {
		r, err := ParseRange(c.s)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", c.s, err)
		}
		if r.MinInclusive != c.minIncl || r.MaxInclusive != c.maxIncl {
			t.Errorf("%q: incl = (%v,%v), want (%v,%v)", c.s, r.MinInclusive, r.MaxInclusive, c.minIncl, c.maxIncl)
		}
		if (r.Min != nil) != c.hasMin || (r.Max != nil) != c.hasMax {
			t.Errorf("%q: bounds present = (%v,%v), want (%v,%v)", c.s, r.Min != nil, r.Max != nil, c.hasMin, c.hasMax)
		}
	}
}

func TestParseRangeExactBracket(t *testing.T) {
	r, err := ParseRange("[1.2.3]")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if !r.IsExact() {
		t.Errorf("expected [1.2.3] to be exact")
	}
}

func TestParseRangeRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "[1.0.0", "1.0.0]", "[1.0.0,2.0.0,3.0.0]"} {
		if _, err := ParseRange(s); err == nil {
			t.Errorf("ParseRange(%q) expected error", s)
		}
	}
}

func TestDecrementCascade(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1.2.3", "1.2.2"},
		{"1.2.0", "1.1.2147483647"},
		{"1.0.0", "0.2147483647.2147483647"},
	}
	for _, c := range cases {
		v, _ := ParseSemVer(c.in)
		got, err := Decrement(v)
		if err != nil {
			t.Fatalf("Decrement(%s): %v", c.in, err)
		}
		if got.String() != c.want {
			t.Errorf("Decrement(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestDecrementZeroErrors(t *testing.T) {
	v, _ := ParseSemVer("0.0.0")
	if _, err := Decrement(v); err == nil {
		t.Errorf("expected error decrementing 0.0.0")
	}
}

func TestIncrementCascade(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1.2.3", "1.2.4"},
		{"1.2.2147483647", "1.3.0"},
		{"1.2147483647.2147483647", "2.0.0"},
	}
	for _, c := range cases {
		v, _ := ParseSemVer(c.in)
		got, err := Increment(v)
		if err != nil {
			t.Fatalf("Increment(%s): %v", c.in, err)
		}
		if got.String() != c.want {
			t.Errorf("Increment(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestIncrementDecrementAreInverse(t *testing.T) {
	v, _ := ParseSemVer("3.4.5")
	up, err := Increment(v)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	down, err := Decrement(up)
	if err != nil {
		t.Fatalf("Decrement: %v", err)
	}
	if !down.Equal(v) {
		t.Errorf("Decrement(Increment(%s)) = %s, want %s", v, down, v)
	}
}
