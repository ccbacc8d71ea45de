package query

import (
	"context"
	"iter"

	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// Index is the read surface the engine needs from the metadata store: a
// name-ordered, official-first, snapshot-consistent record sequence.
type Index interface {
	All() iter.Seq[domain.PackageRecord]
}

// Options parameterizes one query call.
type Options struct {
	// Term is the optional name/description search term.
	Term string
	// Predicates are ANDed field filters.
	Predicates []Predicate
	// Limit caps the result count. Negative means unbounded.
	Limit int
}

// Engine filters and searches the metadata index. It is a pure reader and
// safe for concurrent use.
type Engine struct {
	index  Index
	tracer ports.Tracer
}

// New creates a query engine over the given index.
func New(index Index, tracer ports.Tracer) *Engine {
	return &Engine{index: index, tracer: tracer}
}

// Search returns the records matching every predicate and the search term,
// name ascending with official records before untrusted ones on equal
// names. No match yields an empty result, never an error.
func (e *Engine) Search(ctx context.Context, opts Options) ([]domain.PackageRecord, error) {
	_, span := e.tracer.Start(ctx, "query.search")
	defer span.End()

	if opts.Limit == 0 {
		return nil, nil
	}

	var m matcher
	if opts.Term != "" {
		m = newMatcher(opts.Term)
	}

	var out []domain.PackageRecord
	for rec := range e.index.All() {
		if !matchesAll(opts.Predicates, &rec) {
			continue
		}
		if opts.Term != "" && !m.matches(rec.Name, rec.Description) {
			continue
		}
		out = append(out, rec)
		// The sequence is already ordered, so the cut-off is exact.
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}

	span.SetAttribute("results", len(out))
	return out, nil
}

func matchesAll(preds []Predicate, rec *domain.PackageRecord) bool {
	for _, p := range preds {
		if !p.Matches(rec) {
			return false
		}
	}
	return true
}
