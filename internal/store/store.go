package store

import (
	"context"
	"iter"
	"sort"
	"sync"
	"sync/atomic"

	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// BuildReport summarizes one full rebuild.
type BuildReport struct {
	Official  int
	Untrusted int
	Malformed int
}

// UpdateReport summarizes one incremental merge of the untrusted half.
type UpdateReport struct {
	Added     int
	Changed   int
	Removed   int
	Stale     int
	Malformed int
}

// Store is the package metadata index. Readers are lock-free: they load the
// current snapshot pointer and work against that generation, unaffected by a
// concurrent rebuild or update. Writers are serialized and fail fast with
// ErrStoreBusy instead of queueing.
type Store struct {
	snap atomic.Pointer[snapshot]

	// mu serializes writers and guards the master record slices below.
	mu        sync.Mutex
	official  []domain.PackageRecord
	untrusted []domain.PackageRecord

	log    ports.Logger
	tracer ports.Tracer
}

// New creates an empty store. Readers see no records until the first Rebuild.
func New(log ports.Logger, tracer ports.Tracer) *Store {
	s := &Store{log: log, tracer: tracer}
	empty, _ := newSnapshot(nil, nil)
	s.snap.Store(empty)
	return s
}

// Size returns the number of distinct package names in the current snapshot.
func (s *Store) Size() int {
	return len(s.snap.Load().names)
}

// Rebuild replaces the whole index from full source snapshots. The new
// generation is built off to the side and swapped in atomically; a reader
// mid-iteration keeps the old one.
func (s *Store) Rebuild(ctx context.Context, official, untrusted []domain.PackageRecord) (*BuildReport, error) {
	if !s.mu.TryLock() {
		return nil, domain.ErrStoreBusy
	}
	defer s.mu.Unlock()

	_, span := s.tracer.Start(ctx, "store.rebuild")
	defer span.End()

	next, malformed := newSnapshot(official, untrusted)
	s.official = official
	s.untrusted = untrusted
	s.snap.Store(next)

	report := &BuildReport{
		Official:  len(official),
		Untrusted: len(untrusted),
		Malformed: malformed,
	}
	span.SetAttribute("packages", len(next.names))
	span.SetAttribute("malformed", malformed)
	s.log.Info("index rebuilt",
		"official", report.Official,
		"untrusted", report.Untrusted,
		"malformed", report.Malformed,
	)
	return report, nil
}

// Update merges a fresh full pull of the untrusted source. Added and changed
// records overwrite by fingerprint. Records missing from the pull are
// dropped, unless a dependency edge in the merged index still references
// them; those are kept and marked stale so reverse lookups keep resolving
// for the rest of the session. The official half is untouched.
func (s *Store) Update(ctx context.Context, fresh []domain.PackageRecord) (*UpdateReport, error) {
	if !s.mu.TryLock() {
		return nil, domain.ErrStoreBusy
	}
	defer s.mu.Unlock()

	_, span := s.tracer.Start(ctx, "store.update")
	defer span.End()

	cur := s.snap.Load()
	report := &UpdateReport{}

	merged := make([]domain.PackageRecord, 0, len(fresh))
	seen := make(map[string]struct{}, len(fresh))
	for i := range fresh {
		rec := fresh[i]
		if rec.Name == "" {
			report.Malformed++
			continue
		}
		if _, err := domain.ParseVersion(rec.Version); err != nil {
			report.Malformed++
			continue
		}
		rec.Stale = false
		seen[rec.Name] = struct{}{}
		merged = append(merged, rec)

		old, known := cur.prints[rec.Name]
		switch {
		case !known:
			report.Added++
		case old != fingerprint(&rec):
			report.Changed++
		}
	}

	// The index holds pointers into the master slices, so a new generation
	// must never be built over storage the published one still references.
	official := make([]domain.PackageRecord, len(s.official))
	copy(official, s.official)

	// Probe pass: index official + fresh to learn which edges survive the
	// merge, then decide stale-keep vs removal for the missing records.
	probeInput := make([]domain.PackageRecord, len(merged))
	copy(probeInput, merged)
	probe, _ := newSnapshot(official, probeInput)
	for i := range s.untrusted {
		old := s.untrusted[i]
		if _, ok := seen[old.Name]; ok {
			continue
		}
		if probe.referenced(old.Name) || anyProvideReferenced(probe, &old) {
			old.Stale = true
			merged = append(merged, old)
			report.Stale++
		} else {
			report.Removed++
		}
	}

	next, _ := newSnapshot(official, merged)
	s.official = official
	s.untrusted = merged
	s.snap.Store(next)

	span.SetAttribute("added", report.Added)
	span.SetAttribute("changed", report.Changed)
	span.SetAttribute("removed", report.Removed)
	s.log.Info("index updated",
		"added", report.Added,
		"changed", report.Changed,
		"removed", report.Removed,
		"stale", report.Stale,
		"malformed", report.Malformed,
	)
	return report, nil
}

func anyProvideReferenced(snap *snapshot, rec *domain.PackageRecord) bool {
	for _, p := range rec.Provides {
		if p.Name != "" && snap.referenced(p.Name) {
			return true
		}
	}
	return false
}

// Lookup returns the record for a name, preferring the official source when
// both carry it.
func (s *Store) Lookup(name string) (*domain.PackageRecord, error) {
	recs := s.snap.Load().byName[name]
	if len(recs) == 0 {
		return nil, domain.ErrPackageNotFound
	}
	return recs[0], nil
}

// LookupFrom returns the record for a name in a specific source.
func (s *Store) LookupFrom(name string, source domain.Source) (*domain.PackageRecord, error) {
	for _, rec := range s.snap.Load().byName[name] {
		if rec.Source == source {
			return rec, nil
		}
	}
	return nil, domain.ErrPackageNotFound
}

// ResolveProvider returns every record able to satisfy the spec, by its own
// name or a provides entry, official records first then name ascending.
// Records that merely list the name under Replaces follow at the end,
// flagged ViaReplaces; they inform the info view but are never picked by
// resolution.
func (s *Store) ResolveProvider(spec domain.DependencySpec) []domain.ProviderChoice {
	snap := s.snap.Load()

	var choices []domain.ProviderChoice
	direct := make(map[*domain.PackageRecord]struct{})
	for _, rec := range snap.providers[spec.Name] {
		if rec.ProvidesName(spec) {
			direct[rec] = struct{}{}
			choices = append(choices, domain.ProviderChoice{Record: rec})
		}
	}
	for _, rec := range snap.replacers[spec.Name] {
		if _, ok := direct[rec]; ok {
			continue
		}
		choices = append(choices, domain.ProviderChoice{Record: rec, ViaReplaces: true})
	}
	return choices
}

// ReverseDependencies returns the packages whose depends, makedepends or
// checkdepends reference the given name, deduplicated and sorted by name
// then link type.
func (s *Store) ReverseDependencies(name string) []domain.ReverseDependant {
	edges := s.snap.Load().reverse[domain.NewInternedString(name)]
	if len(edges) == 0 {
		return nil
	}

	type key struct {
		name string
		link string
	}
	uniq := make(map[key]domain.Source, len(edges))
	for _, e := range edges {
		k := key{name: e.name.String(), link: e.link}
		if _, ok := uniq[k]; !ok {
			uniq[k] = e.source
		}
	}

	out := make([]domain.ReverseDependant, 0, len(uniq))
	for k, source := range uniq {
		out = append(out, domain.ReverseDependant{Name: k.name, Source: source, LinkType: k.link})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].LinkType < out[j].LinkType
	})
	return out
}

// All returns a restartable iterator over every record, name ascending,
// official before untrusted on shared names. The sequence is consistent
// with the snapshot current at the time of the call; a concurrent update
// does not affect a running iteration.
func (s *Store) All() iter.Seq[domain.PackageRecord] {
	snap := s.snap.Load()
	return func(yield func(domain.PackageRecord) bool) {
		for _, name := range snap.names {
			for _, rec := range snap.byName[name] {
				if !yield(*rec) {
					return
				}
			}
		}
	}
}
