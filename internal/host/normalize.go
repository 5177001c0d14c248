package host

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nulifyer/modget/internal/modgeterr"
	"github.com/nulifyer/modget/internal/spec"
	"github.com/nulifyer/modget/internal/version"
)

// UserInput is the tagged-variant boundary shape described in §6/§9:
// a user can name a module as a bare name, a "Name@Version" required
// string, or a record with optional Version/MaximumVersion/Required
// fields and an optional Guid. Exactly one of the string forms or the
// record fields should be populated; when Raw is non-empty Normalize
// uses it and ignores the record fields.
type UserInput struct {
	// Raw is used when the user supplied a bare name or "Name@Version"
	// string. Mutually exclusive with the record fields below in
	// practice, but Normalize does not enforce that — Raw simply wins
	// if non-empty.
	Raw string

	Name            string
	Version         string
	MaximumVersion  string
	RequiredVersion string
	Guid            string
}

// Normalize converts a UserInput into a core Spec, materialising absent
// bounds to the default min/max version per §3.2.
func Normalize(in UserInput) (spec.Spec, error) {
	if in.Raw != "" {
		return normalizeRaw(in.Raw)
	}
	return normalizeRecord(in)
}

func normalizeRaw(raw string) (spec.Spec, error) {
	if idx := strings.IndexByte(raw, '@'); idx != -1 {
		name := raw[:idx]
		verStr := raw[idx+1:]
		v, err := version.ParseEither(verStr)
		if err != nil {
			return spec.Spec{}, &modgeterr.InvalidArgumentError{Value: raw, Reason: "invalid version in Name@Version form: " + err.Error()}
		}
		return spec.Spec{Name: name, Min: v, Max: v}, nil
	}
	return spec.Spec{Name: raw, Min: version.MinVersion(), Max: version.MaxVersion()}, nil
}

func normalizeRecord(in UserInput) (spec.Spec, error) {
	if in.Name == "" {
		return spec.Spec{}, &modgeterr.InvalidArgumentError{Value: "", Reason: "module record missing Name"}
	}

	s := spec.Spec{Name: in.Name}

	if in.Guid != "" {
		g, err := uuid.Parse(in.Guid)
		if err != nil {
			return spec.Spec{}, &modgeterr.InvalidArgumentError{Value: in.Guid, Reason: "invalid Guid: " + err.Error()}
		}
		s.Guid = g
	}

	if in.RequiredVersion != "" {
		v, err := version.ParseEither(in.RequiredVersion)
		if err != nil {
			return spec.Spec{}, &modgeterr.InvalidArgumentError{Value: in.RequiredVersion, Reason: "invalid RequiredVersion: " + err.Error()}
		}
		s.Min, s.Max = v, v
		return s, nil
	}
	if s.Guid != uuid.Nil {
		return spec.Spec{}, &modgeterr.InvalidArgumentError{Value: in.Guid, Reason: "a non-zero Guid is only permitted on a required spec"}
	}

	s.Min = version.MinVersion()
	if in.Version != "" {
		v, err := version.ParseEither(in.Version)
		if err != nil {
			return spec.Spec{}, &modgeterr.InvalidArgumentError{Value: in.Version, Reason: "invalid Version: " + err.Error()}
		}
		s.Min = v
	}
	s.Max = version.MaxVersion()
	if in.MaximumVersion != "" {
		v, err := version.ParseEither(in.MaximumVersion)
		if err != nil {
			return spec.Spec{}, &modgeterr.InvalidArgumentError{Value: in.MaximumVersion, Reason: "invalid MaximumVersion: " + err.Error()}
		}
		s.Max = v
	}
	if s.Min.GreaterThan(s.Max) {
		return spec.Spec{}, &modgeterr.InvalidArgumentError{Value: in.Name, Reason: "Version exceeds MaximumVersion"}
	}
	return s, nil
}
