// Package store implements the copy-on-write package metadata index.
package store

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"go.trai.ch/aurdex/internal/core/domain"
)

// reverseEdge is one in-edge of the reverse dependency index: the package
// holding the dependency field, and which field it was.
type reverseEdge struct {
	name   domain.InternedString
	source domain.Source
	link   string
}

var linkTypes = []string{"depends", "makedepends", "checkdepends"}

// snapshot is one immutable generation of the index. It is built off to the
// side and published with an atomic pointer swap; readers holding a snapshot
// never observe a partial merge.
type snapshot struct {
	// byName holds every record keyed by name, official records first.
	byName map[string][]*domain.PackageRecord
	// providers maps a provided name (own name included) to the records
	// carrying it.
	providers map[string][]*domain.PackageRecord
	// replacers maps a name to records listing it under Replaces.
	replacers map[string][]*domain.PackageRecord
	// reverse maps a provided name to the packages whose dependency fields
	// reference it. Keys and edge names are interned; the same package
	// names repeat across thousands of edges.
	reverse map[domain.InternedString][]reverseEdge
	// prints holds per-record fingerprints of the untrusted half, used by
	// Update to tell changed records from resubmitted identical ones.
	prints map[string]uint64
	// names is the sorted, deduplicated name list backing All.
	names []string
}

// newSnapshot indexes the given records. Malformed records (empty name,
// unparsable version) are skipped and counted, never fatal.
func newSnapshot(official, untrusted []domain.PackageRecord) (*snapshot, int) {
	s := &snapshot{
		byName:    make(map[string][]*domain.PackageRecord, len(official)+len(untrusted)),
		providers: make(map[string][]*domain.PackageRecord),
		replacers: make(map[string][]*domain.PackageRecord),
		reverse:   make(map[domain.InternedString][]reverseEdge),
		prints:    make(map[string]uint64, len(untrusted)),
	}

	malformed := 0
	for i := range official {
		if !s.add(&official[i], domain.SourceOfficial) {
			malformed++
		}
	}
	for i := range untrusted {
		if !s.add(&untrusted[i], domain.SourceUntrusted) {
			malformed++
		}
	}

	s.finish()
	return s, malformed
}

// add indexes one record, reporting false when it is malformed. The record
// keeps the caller's slice storage; snapshots never mutate records after
// construction.
func (s *snapshot) add(rec *domain.PackageRecord, source domain.Source) bool {
	if rec.Name == "" {
		return false
	}
	if _, err := domain.ParseVersion(rec.Version); err != nil {
		return false
	}
	rec.Source = source

	s.byName[rec.Name] = append(s.byName[rec.Name], rec)
	s.providers[rec.Name] = append(s.providers[rec.Name], rec)
	for _, p := range rec.Provides {
		if p.Name != "" && p.Name != rec.Name {
			s.providers[p.Name] = append(s.providers[p.Name], rec)
		}
	}
	for _, r := range rec.Replaces {
		if r != "" {
			s.replacers[r] = append(s.replacers[r], rec)
		}
	}

	from := domain.NewInternedString(rec.Name)
	for i, field := range rec.DependencyFields() {
		for _, dep := range field {
			if dep.Name == "" {
				continue
			}
			key := domain.NewInternedString(dep.Name)
			s.reverse[key] = append(s.reverse[key], reverseEdge{
				name:   from,
				source: source,
				link:   linkTypes[i],
			})
		}
	}

	if source == domain.SourceUntrusted {
		s.prints[rec.Name] = fingerprint(rec)
	}
	return true
}

// finish sorts the per-name and provider buckets and freezes the name list.
// Must be called once, after the last add.
func (s *snapshot) finish() {
	s.names = make([]string, 0, len(s.byName))
	for name, recs := range s.byName {
		s.names = append(s.names, name)
		sortRecords(recs)
	}
	sort.Strings(s.names)
	for _, recs := range s.providers {
		sortRecords(recs)
	}
	for _, recs := range s.replacers {
		sortRecords(recs)
	}
}

// sortRecords orders a bucket official-first, then name ascending.
func sortRecords(recs []*domain.PackageRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Source != b.Source {
			return a.Source == domain.SourceOfficial
		}
		return a.Name < b.Name
	})
}

// referenced reports whether any indexed record links to the given name
// through a dependency field.
func (s *snapshot) referenced(name string) bool {
	return len(s.reverse[domain.NewInternedString(name)]) > 0
}

// fingerprint hashes the fields of a record that matter for change
// detection. Stale is excluded: marking a record stale must not make it
// look modified on the next merge.
func fingerprint(rec *domain.PackageRecord) uint64 {
	d := xxhash.New()
	writeField := func(parts ...string) {
		for _, p := range parts {
			_, _ = d.WriteString(p)
			_, _ = d.Write([]byte{0})
		}
	}

	writeField(rec.Name, rec.Version, rec.Description, rec.URL, rec.PackageBase,
		rec.Arch, rec.Maintainer, rec.Submitter)
	writeField(rec.CoMaintainers...)
	for _, field := range [][]domain.DependencySpec{
		rec.Depends, rec.MakeDepends, rec.CheckDepends, rec.OptDepends, rec.Provides,
	} {
		for _, dep := range field {
			writeField(dep.String(), dep.Description)
		}
		writeField()
	}
	writeField(rec.Conflicts...)
	writeField(rec.Replaces...)
	writeField(rec.License...)
	writeField(rec.Keywords...)
	writeField(strconv.FormatBool(rec.OutOfDate),
		strconv.Itoa(rec.NumVotes),
		strconv.FormatFloat(rec.Popularity, 'g', -1, 64),
		strconv.FormatInt(rec.FirstSubmitted, 10),
		strconv.FormatInt(rec.LastModified, 10))
	return d.Sum64()
}
