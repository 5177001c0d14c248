// Package localscan searches a host's module search path for an
// already-installed module version that satisfies a spec, grounded on
// the filepath.WalkDir/os.ReadDir idiom guget/discovery.go uses for
// filesystem enumeration, generalised from "find project files" to
// "find an installed module directory".
package localscan

import (
	"fmt"
	"os"
	"path/filepath"

	"logger"

	"github.com/nulifyer/modget/internal/modgeterr"
	"github.com/nulifyer/modget/internal/spec"
	"github.com/nulifyer/modget/internal/version"
)

// SplitSearchPaths splits a PATH_SEP-separated search-path string,
// dropping empty entries.
func SplitSearchPaths(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == os.PathListSeparator {
			if seg := s[start:i]; seg != "" {
				out = append(out, seg)
			}
			start = i + 1
		}
	}
	return out
}

// FindLocal searches searchPaths, in order, for an installed module
// version satisfying s, returning the path to its manifest file.
//
// If s is required, it probes {path}/{Name}/{RequiredVersion}/{Name}.psd1
// directly. Otherwise it enumerates {path}/{Name}/* directories, parses
// each name as a classical version (skipping unparseable and, per the
// design decision recorded in SPEC_FULL.md, pre-release directories —
// ParseClassical never produces one), and returns the manifest of the
// highest version matching s.
//
// A directory that names a candidate version but is missing its
// manifest file is reported as CorruptLocalModuleError rather than
// silently skipped. Any other scanner failure is swallowed by the
// caller treating ok==false as "not found locally" — per §4.4, scanner
// failures besides corruption are non-fatal to the resolver.
func FindLocal(s spec.Spec, searchPaths []string) (manifestPath string, ok bool, err error) {
	for _, root := range searchPaths {
		if root == "" {
			continue
		}
		if s.Required() {
			p := manifestPathFor(root, s.Name, version.DisplayString(s.Min))
			if _, statErr := os.Stat(p); statErr == nil {
				return p, true, nil
			}
			continue
		}

		moduleDir := filepath.Join(root, s.Name)
		entries, readErr := os.ReadDir(moduleDir)
		if readErr != nil {
			logger.Trace("no local directory for %s under %s: %v", s.Name, root, readErr)
			continue
		}

		var best version.SemVer
		var bestVersionStr string
		found := false
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			c, parseErr := version.ParseClassical(e.Name())
			if parseErr != nil {
				continue
			}
			v := version.ToSemVer(c)
			if !s.Matches(v) {
				continue
			}
			if !found || v.GreaterThan(best) {
				best = v
				bestVersionStr = e.Name()
				found = true
			}
		}
		if !found {
			continue
		}

		p := manifestPathFor(root, s.Name, bestVersionStr)
		if _, statErr := os.Stat(p); statErr != nil {
			return "", false, &modgeterr.CorruptLocalModuleError{
				Name:    s.Name,
				Version: bestVersionStr,
				Path:    p,
			}
		}
		return p, true, nil
	}
	return "", false, nil
}

func manifestPathFor(root, name, ver string) string {
	return filepath.Join(root, name, ver, fmt.Sprintf("%s.psd1", name))
}
