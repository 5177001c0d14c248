// Package host declares the external collaborator interfaces the
// resolver and installer core is deliberately ignorant of: the
// invoking CLI/UI, configuration file loading, progress reporting,
// environment/search-path mutation, and profile-file editing. Per
// SPEC_FULL.md §1 these are out of scope for the core — this package
// only fixes their shape so a concrete CLI layer (cmd/modget) can
// implement them.
package host

import "github.com/nulifyer/modget/internal/spec"

// SourceProvider supplies the registry base URL(s) and credentials a
// run should use. A concrete implementation might read a config file,
// environment variables, or CLI flags; the core only ever asks for the
// already-resolved list.
type SourceProvider interface {
	Sources() []RegistrySource
}

// RegistrySource is a single registry endpoint plus optional static
// credentials for it.
type RegistrySource struct {
	Name     string
	URL      string
	Username string
	Password string
}

// ProgressSink receives best-effort progress notifications from the
// resolver and installer drivers. Implementations must not block the
// caller; a TUI-backed sink should buffer internally and render
// asynchronously.
type ProgressSink interface {
	ModuleResolving(name string)
	ModuleResolved(name, version string)
	ModuleDownloading(name, version string)
	ModuleExtracted(name, version string)
	Failed(name string, err error)
}

// PathMutator edits the host's module search path (e.g. an environment
// variable or shell profile fragment) once installation completes.
type PathMutator interface {
	AddSearchPath(path string) error
}

// ProfileEditor appends or updates a dependency declaration in a host
// profile/manifest file (the project file equivalent on the resolver's
// side of the boundary).
type ProfileEditor interface {
	AddDependency(hostSpec spec.HostSpec) error
}

// NoopProgressSink discards every notification; useful as a default
// when the caller doesn't care about progress (e.g. in tests or
// non-interactive automation).
type NoopProgressSink struct{}

func (NoopProgressSink) ModuleResolving(name string)            {}
func (NoopProgressSink) ModuleResolved(name, version string)    {}
func (NoopProgressSink) ModuleDownloading(name, version string) {}
func (NoopProgressSink) ModuleExtracted(name, version string)   {}
func (NoopProgressSink) Failed(name string, err error)          {}
