// Package domain contains the core types of the package metadata index.
package domain

import "strings"

// Source identifies which repository a record came from.
type Source string

const (
	// SourceOfficial is the trusted, pre-built repository (system sync db).
	SourceOfficial Source = "official"
	// SourceUntrusted is the community metadata source whose packages
	// require a local build before install.
	SourceUntrusted Source = "aur"
)

// ComparisonOp is the version constraint operator of a dependency spec.
type ComparisonOp string

const (
	// OpAny places no constraint on the provider version.
	OpAny ComparisonOp = ""
	// OpEqual requires an exactly matching version.
	OpEqual ComparisonOp = "="
	// OpLess requires a strictly older provider.
	OpLess ComparisonOp = "<"
	// OpLessEqual requires an older or equal provider.
	OpLessEqual ComparisonOp = "<="
	// OpGreater requires a strictly newer provider.
	OpGreater ComparisonOp = ">"
	// OpGreaterEqual requires a newer or equal provider.
	OpGreaterEqual ComparisonOp = ">="
)

// DependencySpec is one entry of a depends/provides list:
// a name, an optional version constraint and an optional free-text
// description ("foo>=1.2: needed for bar").
type DependencySpec struct {
	Name        string
	Op          ComparisonOp
	Version     string
	Description string
}

// ParseDependencySpec parses the "name[op version][: description]" form used
// by depends, makedepends, checkdepends, optdepends and provides entries.
// provides entries use "name=version"; anything unparseable becomes a plain
// name so a sloppy upstream field never aborts ingestion.
func ParseDependencySpec(raw string) DependencySpec {
	spec := DependencySpec{}

	if idx := strings.Index(raw, ": "); idx >= 0 {
		spec.Description = strings.TrimSpace(raw[idx+2:])
		raw = raw[:idx]
	} else if idx := strings.IndexByte(raw, ':'); idx >= 0 && !strings.ContainsAny(raw[:idx], "<>=") {
		// "name:description" without the space variant.
		spec.Description = strings.TrimSpace(raw[idx+1:])
		raw = raw[:idx]
	}
	raw = strings.TrimSpace(raw)

	for _, op := range []ComparisonOp{OpLessEqual, OpGreaterEqual, OpEqual, OpLess, OpGreater} {
		if idx := strings.Index(raw, string(op)); idx >= 0 {
			spec.Name = strings.TrimSpace(raw[:idx])
			spec.Op = op
			spec.Version = strings.TrimSpace(raw[idx+len(op):])
			return spec
		}
	}

	spec.Name = raw
	return spec
}

// Satisfied reports whether a provider at the given version meets the
// constraint. An empty candidate version satisfies only unconstrained specs.
func (s DependencySpec) Satisfied(version string) bool {
	if s.Op == OpAny || s.Version == "" {
		return true
	}
	if version == "" {
		return false
	}

	c := CompareVersions(version, s.Version)
	switch s.Op {
	case OpEqual:
		return c == 0
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	default:
		return true
	}
}

// String reassembles the spec without its description.
func (s DependencySpec) String() string {
	if s.Op == OpAny {
		return s.Name
	}
	return s.Name + string(s.Op) + s.Version
}

// PackageRecord is one row of the metadata index: a package as known to a
// single source. (Name, Source) is unique within a snapshot.
type PackageRecord struct {
	Name        string
	Source      Source
	Version     string
	Description string
	URL         string
	PackageBase string
	Arch        string

	Maintainer    string
	Submitter     string
	CoMaintainers []string

	Depends      []DependencySpec
	MakeDepends  []DependencySpec
	CheckDepends []DependencySpec
	OptDepends   []DependencySpec
	Provides     []DependencySpec
	Conflicts    []string
	Replaces     []string

	License  []string
	Keywords []string

	OutOfDate bool
	// Stale marks a record that vanished from a fresh untrusted pull but is
	// still referenced by reverse edges within the current session.
	Stale bool

	NumVotes       int
	Popularity     float64
	FirstSubmitted int64
	LastModified   int64
}

// Abandoned reports whether the package has no maintainer.
func (r *PackageRecord) Abandoned() bool {
	return r.Maintainer == ""
}

// DependencyFields returns the dependency lists that create reverse edges:
// depends, makedepends and checkdepends. optdepends are advisory only.
func (r *PackageRecord) DependencyFields() [][]DependencySpec {
	return [][]DependencySpec{r.Depends, r.MakeDepends, r.CheckDepends}
}

// ProvidesName reports whether the record provides the given virtual name at
// a version satisfying the spec, either by its own name or a provides entry.
func (r *PackageRecord) ProvidesName(spec DependencySpec) bool {
	if r.Name == spec.Name {
		return spec.Satisfied(r.Version)
	}
	for _, p := range r.Provides {
		if p.Name != spec.Name {
			continue
		}
		// An unversioned provides entry satisfies only unconstrained specs.
		if spec.Op == OpAny {
			return true
		}
		if p.Version != "" && spec.Satisfied(p.Version) {
			return true
		}
	}
	return false
}
