package host

import "testing"

func TestNormalizeBareName(t *testing.T) {
	s, err := Normalize(UserInput{Raw: "A"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Name != "A" || s.Required() {
		t.Errorf("got %+v, want unconstrained spec for A", s)
	}
}

func TestNormalizeRequiredString(t *testing.T) {
	s, err := Normalize(UserInput{Raw: "A@1.2.3"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !s.Required() || s.Min.String() != "1.2.3" {
		t.Errorf("got %+v, want required A@1.2.3", s)
	}
}

func TestNormalizeRequiredStringBadVersion(t *testing.T) {
	if _, err := Normalize(UserInput{Raw: "A@not-a-version"}); err == nil {
		t.Fatal("expected error for malformed version")
	}
}

func TestNormalizeRecordWithBounds(t *testing.T) {
	s, err := Normalize(UserInput{Name: "A", Version: "1.0.0", MaximumVersion: "2.0.0"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Min.String() != "1.0.0" || s.Max.String() != "2.0.0" {
		t.Errorf("got min=%s max=%s", s.Min, s.Max)
	}
}

func TestNormalizeRecordRequired(t *testing.T) {
	s, err := Normalize(UserInput{Name: "A", RequiredVersion: "1.0.0"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !s.Required() {
		t.Errorf("expected required spec, got %+v", s)
	}
}

func TestNormalizeRecordMissingName(t *testing.T) {
	if _, err := Normalize(UserInput{Version: "1.0.0"}); err == nil {
		t.Fatal("expected error for missing Name")
	}
}

func TestNormalizeRecordGuidRequiresRequired(t *testing.T) {
	_, err := Normalize(UserInput{Name: "A", Version: "1.0.0", Guid: "11111111-1111-1111-1111-111111111111"})
	if err == nil {
		t.Fatal("expected error: non-zero Guid on a non-required spec")
	}
}

func TestNormalizeRecordInvertedBoundsRejected(t *testing.T) {
	_, err := Normalize(UserInput{Name: "A", Version: "2.0.0", MaximumVersion: "1.0.0"})
	if err == nil {
		t.Fatal("expected error for Version > MaximumVersion")
	}
}
