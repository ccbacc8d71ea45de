package domain

import "sort"

// Classification is the resolution state of a discovered package.
type Classification uint8

const (
	// ClassPending means the node is queued but not yet examined.
	ClassPending Classification = iota
	// ClassResolving means the node is on the active expansion path.
	ClassResolving
	// ClassSatisfied means an installed version already meets the constraint.
	ClassSatisfied
	// ClassRepoAvailable means an official-repo record satisfies the spec.
	ClassRepoAvailable
	// ClassNeedsBuild means only an untrusted-repo record satisfies the spec.
	ClassNeedsBuild
	// ClassUnresolvable means no installed version and no provider exists.
	ClassUnresolvable
	// ClassCycleDetected means the node closed a cycle on the expansion path.
	ClassCycleDetected
)

// String returns the human-readable classification name.
func (c Classification) String() string {
	switch c {
	case ClassPending:
		return "pending"
	case ClassResolving:
		return "resolving"
	case ClassSatisfied:
		return "satisfied"
	case ClassRepoAvailable:
		return "repo-available"
	case ClassNeedsBuild:
		return "needs-build"
	case ClassUnresolvable:
		return "unresolvable"
	case ClassCycleDetected:
		return "cycle-detected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the classification is final for this call.
func (c Classification) Terminal() bool {
	return c >= ClassSatisfied
}

// InstalledSet is an immutable name-to-version snapshot of the local system
// state, valid for the duration of one resolution call.
type InstalledSet map[string]string

// Satisfies reports whether an installed package meets the dependency spec,
// matching by exact name only. Virtual provides of installed packages are
// not tracked by the installed-set collaborator.
func (s InstalledSet) Satisfies(spec DependencySpec) bool {
	version, ok := s[spec.Name]
	if !ok {
		return false
	}
	return spec.Satisfied(version)
}

// ResolutionNode is one package discovered during a resolution call.
// Parents records every in-edge seen, for cycle reporting and
// "needed by" diagnostics.
type ResolutionNode struct {
	Name    string
	Record  *PackageRecord // nil for Satisfied-by-install and Unresolvable nodes
	Class   Classification
	Depth   int
	Parents map[string]struct{}
	// OptDeps carries the node's optional dependencies as advisory
	// annotations; they are never expanded.
	OptDeps []DependencySpec
}

// ParentNames returns the sorted in-edge names.
func (n *ResolutionNode) ParentNames() []string {
	names := make([]string, 0, len(n.Parents))
	for p := range n.Parents {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

// UnresolvedDep names a package no source could provide, with the parent
// that requested it.
type UnresolvedDep struct {
	Name   string
	Parent string
}

// ResolutionReport is the ordered installation plan produced by one
// resolution call.
type ResolutionReport struct {
	// Satisfied lists packages already met by the installed set (informational).
	Satisfied []*ResolutionNode
	// RepoAvailable lists official-repo installs, ordered by name.
	RepoAvailable []*ResolutionNode
	// NeedsBuild lists untrusted-repo builds in a topological order
	// consistent with their mutual depends-on edges, ties broken by name.
	NeedsBuild []*ResolutionNode
	// Unresolvable lists plan gaps with the requesting parent.
	Unresolvable []UnresolvedDep
	// Cycles lists each detected cycle as its ordered member names.
	Cycles [][]string
	// Truncated is set when the node-visit ceiling stopped the walk early.
	Truncated bool
}

// Empty reports whether the resolution discovered nothing at all.
func (r *ResolutionReport) Empty() bool {
	return len(r.Satisfied) == 0 && len(r.RepoAvailable) == 0 &&
		len(r.NeedsBuild) == 0 && len(r.Unresolvable) == 0 && len(r.Cycles) == 0
}
