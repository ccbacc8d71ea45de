// Package app implements the application layer for aurdex.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/aurdex/internal/adapters/watcher"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
	"go.trai.ch/aurdex/internal/engine/query"
	"go.trai.ch/aurdex/internal/engine/resolver"
	"go.trai.ch/aurdex/internal/store"
)

// App wires the metadata store and the engines to the sources and the
// terminal.
type App struct {
	settings  *domain.Settings
	logger    ports.Logger
	tracer    ports.Tracer
	official  ports.OfficialSource
	untrusted ports.UntrustedSource
	installed ports.InstalledProvider
	renderer  ports.Renderer
	watcher   ports.Watcher

	store    *store.Store
	query    *query.Engine
	resolver *resolver.Engine

	stdout io.Writer
	// aurCachePath is the cached archive location observed in watch mode.
	aurCachePath string
}

// New creates a new App instance.
func New(
	settings *domain.Settings,
	log ports.Logger,
	tracer ports.Tracer,
	official ports.OfficialSource,
	untrusted ports.UntrustedSource,
	installed ports.InstalledProvider,
	renderer ports.Renderer,
	fswatcher ports.Watcher,
) *App {
	st := store.New(log, tracer)
	return &App{
		settings:  settings,
		logger:    log,
		tracer:    tracer,
		official:  official,
		untrusted: untrusted,
		installed: installed,
		renderer:  renderer,
		watcher:   fswatcher,
		store:     st,
		query:     query.New(st, tracer),
		resolver:  resolver.New(st, installed, log, tracer),
		stdout:    os.Stdout,
	}
}

// WithStdout redirects result output. This is primarily used for testing.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithAURCachePath sets the cached archive location for watch mode.
func (a *App) WithAURCachePath(path string) *App {
	a.aurCachePath = path
	return a
}

// ensureIndex populates the store on first use. Both sources are read
// concurrently.
func (a *App) ensureIndex(ctx context.Context) error {
	if a.store.Size() > 0 {
		return nil
	}
	return a.rebuild(ctx, false)
}

// rebuild reads both sources and swaps in a fresh index generation.
func (a *App) rebuild(ctx context.Context, forceFetch bool) error {
	var official, untrusted []domain.PackageRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, _, err := a.official.Snapshot(gctx)
		if err != nil {
			return zerr.Wrap(err, "reading official repositories")
		}
		official = records
		return nil
	})
	g.Go(func() error {
		var (
			records []domain.PackageRecord
			err     error
		)
		if forceFetch {
			records, _, err = a.untrusted.Refresh(gctx)
		} else {
			records, _, err = a.untrusted.Snapshot(gctx)
		}
		if err != nil {
			return zerr.Wrap(err, "reading AUR metadata")
		}
		untrusted = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	report, err := a.store.Rebuild(ctx, official, untrusted)
	if err != nil {
		return err
	}
	a.logger.Info("index rebuilt",
		"official", report.Official,
		"aur", report.Untrusted,
		"malformed", report.Malformed,
	)
	return nil
}

// SearchOptions configuration for the Search method.
type SearchOptions struct {
	// Terms are joined into one search term.
	Terms []string
	// Filters are raw field=value predicates.
	Filters []string
	// Limit caps the result count. Zero means the configured default,
	// negative is unbounded.
	Limit int
}

// Search queries the index and renders the matching records.
func (a *App) Search(ctx context.Context, opts SearchOptions) error {
	ctx, span := a.tracer.Start(ctx, "app.search")
	defer span.End()

	preds, err := query.ParsePredicates(opts.Filters)
	if err != nil {
		return err
	}
	if err := a.ensureIndex(ctx); err != nil {
		return err
	}

	limit := opts.Limit
	if limit == 0 {
		limit = a.settings.DefaultLimit
	}
	results, err := a.query.Search(ctx, query.Options{
		Term:       strings.Join(opts.Terms, " "),
		Predicates: preds,
		Limit:      limit,
	})
	if err != nil {
		return err
	}
	return a.renderer.SearchResults(a.stdout, results)
}

// DeptreeOptions configuration for the Deptree method.
type DeptreeOptions struct {
	Roots               []string
	Deep                bool
	IncludeCheckDepends bool
}

// Deptree resolves the dependency closure of the given roots and renders
// the grouped installation plan. A truncated resolution still renders its
// partial plan.
func (a *App) Deptree(ctx context.Context, opts DeptreeOptions) error {
	ctx, span := a.tracer.Start(ctx, "app.deptree")
	defer span.End()

	if err := a.ensureIndex(ctx); err != nil {
		return err
	}

	report, err := a.resolver.Resolve(ctx, opts.Roots, resolver.Options{
		Deep:                opts.Deep,
		IncludeCheckDepends: opts.IncludeCheckDepends || a.settings.IncludeCheckDepends,
		MaxVisits:           a.settings.MaxVisits,
	})
	if err != nil && !errors.Is(err, domain.ErrResolutionTruncated) {
		return err
	}
	return a.renderer.Plan(a.stdout, report)
}

// Info renders the enriched view of one package.
func (a *App) Info(ctx context.Context, name string) error {
	ctx, span := a.tracer.Start(ctx, "app.info")
	defer span.End()

	if err := a.ensureIndex(ctx); err != nil {
		return err
	}

	rec, err := a.store.Lookup(name)
	if err != nil {
		return err
	}

	installed, err := a.installed.Installed(ctx)
	if err != nil {
		return zerr.Wrap(err, "reading installed set")
	}

	details := &domain.PackageDetails{
		Record:           rec,
		InstalledVersion: installed[rec.Name],
		Depends:          a.enrich(rec.Depends, installed),
		MakeDepends:      a.enrich(rec.MakeDepends, installed),
		CheckDepends:     a.enrich(rec.CheckDepends, installed),
		OptDepends:       a.enrich(rec.OptDepends, installed),
		Dependants:       a.dependants(rec),
	}
	return a.renderer.PackageDetails(a.stdout, details)
}

// enrich resolves the providers of each dependency spec and marks the ones
// already installed.
func (a *App) enrich(specs []domain.DependencySpec, installed domain.InstalledSet) []domain.EnrichedDependency {
	if len(specs) == 0 {
		return nil
	}
	out := make([]domain.EnrichedDependency, 0, len(specs))
	for _, spec := range specs {
		providers := a.store.ResolveProvider(spec)
		for i := range providers {
			_, ok := installed[providers[i].Record.Name]
			providers[i].Installed = ok
		}
		out = append(out, domain.EnrichedDependency{Spec: spec, Providers: providers})
	}
	return out
}

// dependants groups reverse dependants by the provided name they reference:
// the package's own name plus every provides entry.
func (a *App) dependants(rec *domain.PackageRecord) map[string][]domain.ReverseDependant {
	names := []string{rec.Name}
	for _, p := range rec.Provides {
		if p.Name != rec.Name {
			names = append(names, p.Name)
		}
	}

	groups := map[string][]domain.ReverseDependant{}
	for _, name := range names {
		if deps := a.store.ReverseDependencies(name); len(deps) > 0 {
			groups[name] = deps
		}
	}
	return groups
}

// UpdateOptions configuration for the Update method.
type UpdateOptions struct {
	// Full discards the cached AUR archive and rebuilds from scratch.
	Full bool
	// Watch keeps running, re-merging when the source files change.
	Watch bool
}

// Update refreshes the index from the sources. Without Full, an unchanged
// remote archive leaves the current generation in place.
func (a *App) Update(ctx context.Context, opts UpdateOptions) error {
	ctx, span := a.tracer.Start(ctx, "app.update")
	defer span.End()

	if opts.Full {
		if err := a.rebuild(ctx, true); err != nil {
			return err
		}
	} else if err := a.merge(ctx); err != nil {
		return err
	}

	if opts.Watch {
		return a.watch(ctx)
	}
	return nil
}

// merge folds fresh AUR metadata into the running index. The incremental
// probe decides whether the full fresh state needs to be read at all.
func (a *App) merge(ctx context.Context) error {
	if err := a.ensureIndex(ctx); err != nil {
		return err
	}

	delta, _, err := a.untrusted.Delta(ctx)
	if err != nil {
		return zerr.Wrap(err, "probing AUR metadata")
	}
	if len(delta) == 0 {
		a.logger.Info("index up to date")
		return nil
	}

	// The probe fetched the fresh archive into the cache; read it back in
	// full so removals are visible too.
	fresh, _, err := a.untrusted.Snapshot(ctx)
	if err != nil {
		return zerr.Wrap(err, "reading AUR metadata")
	}
	report, err := a.store.Update(ctx, fresh)
	if err != nil {
		return err
	}
	a.logger.Info("index updated",
		"added", report.Added,
		"changed", report.Changed,
		"removed", report.Removed,
		"stale", report.Stale,
	)
	return nil
}

// watch blocks, re-merging the index whenever a source location changes,
// until the context is cancelled.
func (a *App) watch(ctx context.Context) error {
	paths := []string{filepath.Join(a.settings.PacmanDBPath, "sync")}
	if a.aurCachePath != "" {
		paths = append(paths, a.aurCachePath)
	}
	if err := a.watcher.Start(ctx, paths); err != nil {
		return zerr.Wrap(err, "starting file watcher")
	}
	defer func() { _ = a.watcher.Stop() }()
	a.logger.Info("watching for metadata changes", "paths", strings.Join(paths, ", "))

	// A change re-reads both local sources; the cached archive reflects
	// whatever landed on disk, no network involved.
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(changed []string) {
		a.logger.Info("metadata changed", "paths", strings.Join(changed, ", "))
		if err := a.rebuild(ctx, false); err != nil {
			if errors.Is(err, domain.ErrStoreBusy) {
				return
			}
			a.logger.Error(err)
		}
	})

	for event := range a.watcher.Events() {
		debouncer.Add(event.Path)
	}
	debouncer.Flush()
	return nil
}
