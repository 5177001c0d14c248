// Package resolver implements the concurrent dependency planner: it
// consumes user module specs, drives a registry client and local
// scanner, walks paginated registration indexes, and emits a
// deduplicated, dependency-closed install plan.
//
// The outer "wait for any completion" driver loop is grounded on
// guget/main.go's parallel SearchExact dispatch (a goroutine per task,
// results funnelled back to a single owner), generalised from a static
// WaitGroup fan-out into an open task set that grows as dependencies are
// discovered. The inner page-scan fan-out uses
// golang.org/x/sync/errgroup for structured, cancellation-propagating
// concurrency, since that step's task set is known up front.
package resolver

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"logger"

	"github.com/nulifyer/modget/internal/host"
	"github.com/nulifyer/modget/internal/modgeterr"
	"github.com/nulifyer/modget/internal/registry"
	"github.com/nulifyer/modget/internal/spec"
	"github.com/nulifyer/modget/internal/version"
)

// RegistryClient is the subset of *registry.Client the resolver depends
// on, narrowed to an interface so tests can substitute a fixture.
type RegistryClient interface {
	FetchRegistrationIndex(ctx context.Context, name string) ([]registry.RegistrationPage, error)
	FetchRegistrationPage(ctx context.Context, pageURI string) (registry.RegistrationPage, error)
}

// FindLocalFunc mirrors localscan.FindLocal's signature, kept as a
// function value rather than an interface so the zero Options value (no
// local scanning) is simply a nil func.
type FindLocalFunc func(s spec.Spec, searchPaths []string) (manifestPath string, ok bool, err error)

// Options configures a single resolver run.
type Options struct {
	PreRelease  bool
	Update      bool
	SearchPaths []string
	FindLocal   FindLocalFunc
	// Progress receives best-effort resolve notifications. Nil means no
	// reporting.
	Progress host.ProgressSink
}

func (o Options) progress() host.ProgressSink {
	if o.Progress == nil {
		return host.NoopProgressSink{}
	}
	return o.Progress
}

type fetchResult struct {
	spec  spec.Spec
	pages []registry.RegistrationPage
	err   error
}

// Resolve runs the planner to completion against client, seeded with
// userSpecs, and returns the resulting plan. It returns the first
// resolver-fatal error encountered (NotFound, NoSatisfyingVersion,
// InvalidRegistryResponse, or a wrapped transport/internal error);
// all other in-flight work is cancelled at that point.
func Resolve(ctx context.Context, client RegistryClient, userSpecs []spec.Spec, opts Options) (*Plan, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	plan := newPlan()
	resultCh := make(chan fetchResult)
	pending := 0

	dispatch := func(s spec.Spec) {
		pending++
		opts.progress().ModuleResolving(s.Name)
		go func() {
			pages, err := client.FetchRegistrationIndex(ctx, s.Name)
			select {
			case resultCh <- fetchResult{spec: s, pages: pages, err: err}:
			case <-ctx.Done():
			}
		}()
	}

	localHit := func(s spec.Spec) bool {
		if opts.Update || opts.FindLocal == nil {
			return false
		}
		path, ok, _ := opts.FindLocal(s, opts.SearchPaths)
		if ok {
			logger.Debug("%s satisfied locally at %s, skipping registry fetch", s.Name, path)
		}
		return ok
	}

	for _, s := range userSpecs {
		if localHit(s) {
			continue
		}
		dispatch(s)
	}

	for pending > 0 {
		select {
		case <-ctx.Done():
			return nil, &modgeterr.CancelledError{Err: ctx.Err()}
		case res := <-resultCh:
			pending--
			if res.err != nil {
				opts.progress().Failed(res.spec.Name, res.err)
				return nil, res.err
			}

			entry, err := selectBestEntry(ctx, client, res.spec, res.pages, opts.PreRelease)
			if err != nil {
				opts.progress().Failed(res.spec.Name, err)
				return nil, err
			}

			resolved, err := toResolvedSpec(entry)
			if err != nil {
				opts.progress().Failed(res.spec.Name, err)
				return nil, err
			}

			if !plan.Add(resolved) {
				continue
			}
			logger.Info("resolved %s %s", resolved.Name, resolved.Min.String())
			opts.progress().ModuleResolved(resolved.Name, resolved.Min.String())

			deps, err := dependenciesOf(entry)
			if err != nil {
				return nil, err
			}
			for _, d := range deps {
				if !admitDependency(d, plan.Resolved(d.Name)) {
					continue
				}
				if localHit(d) {
					continue
				}
				dispatch(d)
			}
		}
	}

	return plan, nil
}

// selectBestEntry implements §4.5's inlined-fast-path / page-scan-path
// selection for a single module spec.
func selectBestEntry(ctx context.Context, client RegistryClient, s spec.Spec, pages []registry.RegistrationPage, preRelease bool) (registry.CatalogEntry, error) {
	var inlined []registry.RegistrationLeaf
	for _, p := range pages {
		if p.IsInlined() {
			inlined = append(inlined, p.Items...)
		}
	}
	if best, ok, err := pickHighest(s, inlined, preRelease); err != nil {
		return registry.CatalogEntry{}, err
	} else if ok {
		return best, nil
	}

	var candidates []registry.RegistrationPage
	for _, p := range pages {
		if p.IsInlined() {
			continue
		}
		lower, err := version.ParseEither(p.Lower)
		if err != nil {
			return registry.CatalogEntry{}, &modgeterr.InvalidRegistryResponseError{URL: p.ID, Reason: "unparseable page lower bound " + p.Lower}
		}
		upper, err := version.ParseEither(p.Upper)
		if err != nil {
			return registry.CatalogEntry{}, &modgeterr.InvalidRegistryResponseError{URL: p.ID, Reason: "unparseable page upper bound " + p.Upper}
		}
		if pageMatches(s, lower, upper) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return registry.CatalogEntry{}, &modgeterr.NoSatisfyingVersionError{Name: s.Name, Range: s.CanonicalString()}
	}

	fetched := make([]registry.RegistrationPage, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range candidates {
		i, p := i, p
		g.Go(func() error {
			full, err := client.FetchRegistrationPage(gctx, p.ID)
			if err != nil {
				return err
			}
			fetched[i] = full
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return registry.CatalogEntry{}, err
	}

	var leaves []registry.RegistrationLeaf
	for _, p := range fetched {
		leaves = append(leaves, p.Items...)
	}
	best, ok, err := pickHighest(s, leaves, preRelease)
	if err != nil {
		return registry.CatalogEntry{}, err
	}
	if !ok {
		return registry.CatalogEntry{}, &modgeterr.NoSatisfyingVersionError{Name: s.Name, Range: s.CanonicalString()}
	}
	return best, nil
}

// pickHighest selects the catalog entry with the highest version
// satisfying s among leaves, filtering pre-release versions unless
// preRelease is set. It also copies the selected leaf's adjacent
// packageContent URI onto the returned catalog entry, per §4.5 step 2.
func pickHighest(s spec.Spec, leaves []registry.RegistrationLeaf, preRelease bool) (registry.CatalogEntry, bool, error) {
	var best registry.CatalogEntry
	var bestV version.SemVer
	found := false
	for _, leaf := range leaves {
		v, err := version.ParseEither(leaf.CatalogEntry.Version)
		if err != nil {
			continue
		}
		if !preRelease && v.IsPreRelease() {
			continue
		}
		if !s.Matches(v) {
			continue
		}
		if !found || v.GreaterThan(bestV) {
			entry := leaf.CatalogEntry
			entry.PackageContent = leaf.PackageContent
			best = entry
			bestV = v
			found = true
		}
	}
	return best, found, nil
}

func toResolvedSpec(entry registry.CatalogEntry) (spec.Spec, error) {
	v, err := version.ParseEither(entry.Version)
	if err != nil {
		return spec.Spec{}, &modgeterr.InternalError{Reason: "selected catalog entry has unparseable version " + entry.Version}
	}
	if entry.PackageContent == "" {
		return spec.Spec{}, &modgeterr.InvalidRegistryResponseError{URL: entry.ID, Reason: "catalog entry missing packageContent"}
	}
	u, err := url.Parse(entry.PackageContent)
	if err != nil {
		return spec.Spec{}, &modgeterr.InvalidRegistryResponseError{URL: entry.PackageContent, Reason: "unparseable packageContent URI"}
	}
	return spec.Spec{Name: entry.ID, Min: v, Max: v, DownloadUri: u, ProjectURL: entry.ProjectURL}, nil
}

func dependenciesOf(entry registry.CatalogEntry) ([]spec.Spec, error) {
	var out []spec.Spec
	for _, group := range entry.DependencyGroups {
		for _, d := range group.Dependencies {
			depSpec, err := dependencyToSpec(d)
			if err != nil {
				return nil, err
			}
			out = append(out, depSpec)
		}
	}
	return out, nil
}

func dependencyToSpec(d registry.Dependency) (spec.Spec, error) {
	if strings.TrimSpace(d.Range) == "" {
		return spec.Spec{Name: d.ID, Min: version.MinVersion(), Max: version.MaxVersion()}, nil
	}
	r, err := version.ParseRange(d.Range)
	if err != nil {
		return spec.Spec{}, &modgeterr.InvalidRegistryResponseError{URL: d.ID, Reason: "unparseable dependency range " + d.Range}
	}
	depSpec, err := spec.FromRange(d.ID, r)
	if err != nil {
		return spec.Spec{}, &modgeterr.InvalidRegistryResponseError{URL: d.ID, Reason: "dependency range " + d.Range + " has no closed equivalent: " + err.Error()}
	}
	return depSpec, nil
}
