// Package version implements the hybrid four-part classical / SemVer 2.0
// version space a module registry speaks, plus NuGet-style range parsing
// and matching. Grounded on guget/Semver.go's SemVer struct and comparison
// idiom, extended with the classical<->SemVer bijection this registry's
// wire format requires.
package version

import (
	"strconv"
	"strings"

	"github.com/nulifyer/modget/internal/modgeterr"
)

// MaxInt32 bounds every classical version part and the default upper
// range endpoint.
const MaxInt32 = 1<<31 - 1

// Classical is a four-part version, (Major, Minor, Build, Revision), with
// Build and Revision optionally absent.
type Classical struct {
	Major    int
	Minor    int
	Build    *int
	Revision *int
}

// HasBuild reports whether the third part is present.
func (c Classical) HasBuild() bool { return c.Build != nil }

// HasRevision reports whether the fourth part is present.
func (c Classical) HasRevision() bool { return c.Revision != nil }

// String renders the classical version in its shortest form.
func (c Classical) String() string {
	s := strconv.Itoa(c.Major) + "." + strconv.Itoa(c.Minor)
	if c.Build != nil {
		s += "." + strconv.Itoa(*c.Build)
	}
	if c.Revision != nil {
		s += "." + strconv.Itoa(*c.Revision)
	}
	return s
}

// ParseClassical parses a 2-, 3-, or 4-part classical version string.
// Each part must be an integer in [0, MaxInt32]. An empty string or more
// than four parts is an InvalidArgumentError.
func ParseClassical(s string) (Classical, error) {
	if s == "" {
		return Classical{}, &modgeterr.InvalidArgumentError{Value: s, Reason: "empty version string"}
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return Classical{}, &modgeterr.InvalidArgumentError{Value: s, Reason: "classical versions must have 2 to 4 parts"}
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > MaxInt32 {
			return Classical{}, &modgeterr.InvalidArgumentError{Value: s, Reason: "part " + p + " is not an integer in [0, MaxInt32]"}
		}
		nums[i] = n
	}

	c := Classical{Major: nums[0], Minor: nums[1]}
	if len(nums) >= 3 {
		c.Build = &nums[2]
	}
	if len(nums) == 4 {
		c.Revision = &nums[3]
	}
	return c, nil
}
