// Package resolver implements dependency tree resolution over the metadata
// index.
package resolver

import (
	"context"
	"sort"

	"go.trai.ch/zerr"

	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// Index is the read surface the resolver needs from the metadata store.
type Index interface {
	ResolveProvider(spec domain.DependencySpec) []domain.ProviderChoice
}

// Options parameterizes one resolution call.
type Options struct {
	// Deep expands the full transitive closure; shallow stops at the
	// direct dependencies of the roots.
	Deep bool
	// IncludeCheckDepends expands check-dependencies of to-be-built
	// packages as well.
	IncludeCheckDepends bool
	// MaxVisits caps the number of node visits. Zero or negative means
	// the built-in default.
	MaxVisits int
}

// Engine resolves dependency trees. It reads the index and the installed
// set, never mutates either, and is safe to run concurrently with queries
// and other resolutions.
type Engine struct {
	index     Index
	installed ports.InstalledProvider
	log       ports.Logger
	tracer    ports.Tracer
}

// New creates a resolver over the given index and installed-set provider.
func New(index Index, installed ports.InstalledProvider, log ports.Logger, tracer ports.Tracer) *Engine {
	return &Engine{index: index, installed: installed, log: log, tracer: tracer}
}

// workItem is one pending (spec, depth, parent) visit. path carries the
// chain of not-yet-expanded ancestors for cycle capture.
type workItem struct {
	spec   domain.DependencySpec
	depth  int
	parent string
	path   []string
}

// Resolve classifies the dependency closure of the given roots into an
// installation plan. Cycles and unresolvable names are report entries, not
// errors. When the visit ceiling stops the walk early the partial report is
// returned together with ErrResolutionTruncated.
func (e *Engine) Resolve(ctx context.Context, roots []string, opts Options) (*domain.ResolutionReport, error) {
	ctx, span := e.tracer.Start(ctx, "resolver.resolve")
	defer span.End()

	if len(roots) == 0 {
		return nil, domain.ErrNoRootsSpecified
	}
	maxVisits := opts.MaxVisits
	if maxVisits <= 0 {
		maxVisits = domain.DefaultMaxVisits
	}

	// The installed set is read fresh per call; it can change between
	// invocations and resolution graphs are never cached across calls.
	installed, err := e.installed.Installed(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.Wrap(err, "reading installed set")
	}

	r := &resolution{
		engine:    e,
		installed: installed,
		opts:      opts,
		arena:     make(map[string]*domain.ResolutionNode),
		cycles:    make(map[string][][]string),
	}

	for _, root := range roots {
		r.enqueue(domain.ParseDependencySpec(root), 0, "", nil)
	}

	visits := 0
	for len(r.queue) > 0 {
		if visits >= maxVisits {
			r.truncated = true
			break
		}
		item := r.queue[0]
		r.queue = r.queue[1:]
		visits++
		r.visit(item)
	}

	report := r.report()
	span.SetAttribute("visits", visits)
	span.SetAttribute("truncated", report.Truncated)
	if report.Truncated {
		e.log.Warn("resolution stopped at visit ceiling", "visits", visits, "roots", len(roots))
		return report, domain.ErrResolutionTruncated
	}
	return report, nil
}

// resolution is the per-call state: worklist, node arena and cycle set.
type resolution struct {
	engine    *Engine
	installed domain.InstalledSet
	opts      Options

	queue     []workItem
	arena     map[string]*domain.ResolutionNode
	cycles    map[string][][]string
	truncated bool
}

func (r *resolution) enqueue(spec domain.DependencySpec, depth int, parent string, path []string) {
	if spec.Name == "" {
		return
	}
	r.queue = append(r.queue, workItem{spec: spec, depth: depth, parent: parent, path: path})
}

func (r *resolution) visit(item workItem) {
	name := item.spec.Name

	// A name reappearing on its own ancestor chain closed a cycle. Record
	// the loop and stop this branch; the walk itself keeps going.
	if idx := indexOf(item.path, name); idx >= 0 {
		r.recordCycle(item.path[idx:])
		return
	}

	if node, ok := r.arena[name]; ok {
		// Diamond: already classified in this call. Merge the in-edge and
		// skip re-expansion, so shared subtrees are walked once.
		addParent(node, item.parent)
		return
	}

	node := &domain.ResolutionNode{
		Name:    name,
		Class:   domain.ClassResolving,
		Depth:   item.depth,
		Parents: make(map[string]struct{}),
	}
	addParent(node, item.parent)
	r.arena[name] = node

	// An installed package ends the branch: its own dependencies are
	// assumed transitively satisfied and are not re-verified.
	if r.installed.Satisfies(item.spec) {
		node.Class = domain.ClassSatisfied
		return
	}

	record := chooseProvider(r.engine.index.ResolveProvider(item.spec))
	if record == nil {
		node.Class = domain.ClassUnresolvable
		return
	}

	node.Record = record
	node.OptDeps = record.OptDepends
	if record.Source == domain.SourceOfficial {
		node.Class = domain.ClassRepoAvailable
	} else {
		node.Class = domain.ClassNeedsBuild
	}

	// Shallow mode visits the direct dependencies of the roots and nothing
	// beyond them.
	if !r.opts.Deep && item.depth >= 1 {
		return
	}

	path := append(append([]string{}, item.path...), name)
	for _, dep := range record.Depends {
		r.enqueue(dep, item.depth+1, name, path)
	}
	for _, dep := range record.MakeDepends {
		r.enqueue(dep, item.depth+1, name, path)
	}
	if r.opts.IncludeCheckDepends && record.Source == domain.SourceUntrusted {
		for _, dep := range record.CheckDepends {
			r.enqueue(dep, item.depth+1, name, path)
		}
	}
}

// chooseProvider picks the record resolution installs from: official
// before untrusted, both already name-ordered by the index. Replaces-only
// matches are informational and never chosen.
func chooseProvider(choices []domain.ProviderChoice) *domain.PackageRecord {
	for _, c := range choices {
		if !c.ViaReplaces {
			return c.Record
		}
	}
	return nil
}

// recordCycle stores a cycle once, keyed by its canonical rotation, and
// reclassifies every member so the plan groups exclude them.
func (r *resolution) recordCycle(members []string) {
	rotated := canonicalRotation(members)
	key := rotated[0]
	for _, known := range r.cycles[key] {
		if equalStrings(known, rotated) {
			return
		}
	}
	r.cycles[key] = append(r.cycles[key], rotated)

	for _, m := range members {
		if node, ok := r.arena[m]; ok {
			node.Class = domain.ClassCycleDetected
		}
	}
}

// report groups the arena into the final plan.
func (r *resolution) report() *domain.ResolutionReport {
	report := &domain.ResolutionReport{Truncated: r.truncated}

	for _, node := range r.arena {
		switch node.Class {
		case domain.ClassSatisfied:
			report.Satisfied = append(report.Satisfied, node)
		case domain.ClassRepoAvailable:
			report.RepoAvailable = append(report.RepoAvailable, node)
		case domain.ClassNeedsBuild:
			report.NeedsBuild = append(report.NeedsBuild, node)
		case domain.ClassUnresolvable:
			for _, parent := range node.ParentNames() {
				report.Unresolvable = append(report.Unresolvable, domain.UnresolvedDep{
					Name:   node.Name,
					Parent: parent,
				})
			}
			if len(node.Parents) == 0 {
				report.Unresolvable = append(report.Unresolvable, domain.UnresolvedDep{Name: node.Name})
			}
		}
	}

	sortNodes(report.Satisfied)
	sortNodes(report.RepoAvailable)
	report.NeedsBuild = r.buildOrder(report.NeedsBuild)
	sort.Slice(report.Unresolvable, func(i, j int) bool {
		a, b := report.Unresolvable[i], report.Unresolvable[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Parent < b.Parent
	})

	keys := make([]string, 0, len(r.cycles))
	for k := range r.cycles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		report.Cycles = append(report.Cycles, r.cycles[k]...)
	}
	return report
}

// buildOrder sorts NeedsBuild nodes topologically over their mutual
// dependency edges, ties broken by name, so the plan builds prerequisites
// first. Cycle members were reclassified, so the order always completes.
func (r *resolution) buildOrder(nodes []*domain.ResolutionNode) []*domain.ResolutionNode {
	if len(nodes) < 2 {
		return nodes
	}

	inSet := make(map[string]*domain.ResolutionNode, len(nodes))
	for _, n := range nodes {
		inSet[n.Name] = n
	}

	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		indegree[n.Name] += 0
		for _, dep := range r.buildDeps(n.Record) {
			target := dep.Name
			if _, ok := inSet[target]; !ok || target == n.Name {
				continue
			}
			dependents[target] = append(dependents[target], n.Name)
			indegree[n.Name]++
		}
	}

	ready := make([]string, 0, len(nodes))
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	ordered := make([]*domain.ResolutionNode, 0, len(nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		ordered = append(ordered, inSet[name])

		released := false
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	// Leftovers would mean an edge loop that escaped cycle capture; keep
	// them in name order rather than dropping them from the plan.
	if len(ordered) < len(nodes) {
		seen := make(map[string]bool, len(ordered))
		for _, n := range ordered {
			seen[n.Name] = true
		}
		var rest []*domain.ResolutionNode
		for _, n := range nodes {
			if !seen[n.Name] {
				rest = append(rest, n)
			}
		}
		sortNodes(rest)
		ordered = append(ordered, rest...)
	}
	return ordered
}

func (r *resolution) buildDeps(rec *domain.PackageRecord) []domain.DependencySpec {
	deps := make([]domain.DependencySpec, 0, len(rec.Depends)+len(rec.MakeDepends))
	deps = append(deps, rec.Depends...)
	deps = append(deps, rec.MakeDepends...)
	if r.opts.IncludeCheckDepends {
		deps = append(deps, rec.CheckDepends...)
	}
	return deps
}

func addParent(node *domain.ResolutionNode, parent string) {
	if parent != "" {
		node.Parents[parent] = struct{}{}
	}
}

func sortNodes(nodes []*domain.ResolutionNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// canonicalRotation rotates a cycle so its smallest member leads, making
// the same loop discovered from different entry points compare equal.
func canonicalRotation(members []string) []string {
	lead := 0
	for i, m := range members {
		if m < members[lead] {
			lead = i
		}
	}
	out := make([]string, 0, len(members))
	out = append(out, members[lead:]...)
	out = append(out, members[:lead]...)
	return out
}
