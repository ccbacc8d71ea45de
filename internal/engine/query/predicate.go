// Package query implements the filter and search engine over the metadata
// index.
package query

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/aurdex/internal/core/domain"
)

// Field is one of the closed set of filterable record fields.
type Field string

const (
	FieldMaintainer    Field = "maintainer"
	FieldSubmitter     Field = "submitter"
	FieldLicense       Field = "license"
	FieldArch          Field = "arch"
	FieldSource        Field = "source"
	FieldDepends       Field = "depends"
	FieldMakeDepends   Field = "makedepends"
	FieldCheckDepends  Field = "checkdepends"
	FieldOptDepends    Field = "optdepends"
	FieldProvides      Field = "provides"
	FieldCoMaintainers Field = "comaintainers"
	FieldOutOfDate     Field = "out_of_date"
	FieldAbandoned     Field = "abandoned"
)

// boolFields take true/false values; everything else compares strings.
var boolFields = map[Field]bool{
	FieldOutOfDate: true,
	FieldAbandoned: true,
}

var knownFields = map[Field]bool{
	FieldMaintainer: true, FieldSubmitter: true, FieldLicense: true,
	FieldArch: true, FieldSource: true, FieldDepends: true,
	FieldMakeDepends: true, FieldCheckDepends: true, FieldOptDepends: true,
	FieldProvides: true, FieldCoMaintainers: true, FieldOutOfDate: true,
	FieldAbandoned: true,
}

// Fields returns the accepted filter field names, for usage text.
func Fields() []string {
	return []string{
		string(FieldMaintainer), string(FieldSubmitter), string(FieldLicense),
		string(FieldArch), string(FieldSource), string(FieldDepends),
		string(FieldMakeDepends), string(FieldCheckDepends), string(FieldOptDepends),
		string(FieldProvides), string(FieldCoMaintainers), string(FieldOutOfDate),
		string(FieldAbandoned),
	}
}

// Predicate is one field=value filter. All predicates of a query must hold.
type Predicate struct {
	Field Field
	Value string

	boolValue bool
}

// ParsePredicate parses a "field=value" filter expression.
func ParsePredicate(raw string) (Predicate, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return Predicate{}, zerr.Wrap(domain.ErrInvalidPredicate, raw)
	}

	p := Predicate{Field: Field(strings.ToLower(strings.TrimSpace(key))), Value: strings.TrimSpace(value)}
	if !knownFields[p.Field] {
		return Predicate{}, zerr.Wrap(domain.ErrUnknownFilterField, string(p.Field))
	}
	if boolFields[p.Field] {
		b, err := strconv.ParseBool(p.Value)
		if err != nil {
			return Predicate{}, zerr.Wrap(domain.ErrInvalidPredicate, raw)
		}
		p.boolValue = b
	}
	return p, nil
}

// ParsePredicates parses a list of filter expressions, failing on the first
// bad one.
func ParsePredicates(raw []string) ([]Predicate, error) {
	out := make([]Predicate, 0, len(raw))
	for _, r := range raw {
		p, err := ParsePredicate(r)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Matches reports whether the record satisfies the predicate.
func (p Predicate) Matches(rec *domain.PackageRecord) bool {
	switch p.Field {
	case FieldMaintainer:
		return rec.Maintainer == p.Value
	case FieldSubmitter:
		return rec.Submitter == p.Value
	case FieldArch:
		return rec.Arch == p.Value
	case FieldSource:
		return string(rec.Source) == p.Value
	case FieldLicense:
		return containsString(rec.License, p.Value)
	case FieldCoMaintainers:
		return containsString(rec.CoMaintainers, p.Value)
	case FieldDepends:
		return containsSpec(rec.Depends, p.Value)
	case FieldMakeDepends:
		return containsSpec(rec.MakeDepends, p.Value)
	case FieldCheckDepends:
		return containsSpec(rec.CheckDepends, p.Value)
	case FieldOptDepends:
		return containsSpec(rec.OptDepends, p.Value)
	case FieldProvides:
		return containsSpec(rec.Provides, p.Value)
	case FieldOutOfDate:
		return rec.OutOfDate == p.boolValue
	case FieldAbandoned:
		return rec.Abandoned() == p.boolValue
	default:
		return false
	}
}

func containsString(list []string, value string) bool {
	for _, s := range list {
		if s == value {
			return true
		}
	}
	return false
}

// containsSpec matches dependency-shaped fields by name, ignoring version
// constraints and descriptions.
func containsSpec(list []domain.DependencySpec, value string) bool {
	for _, s := range list {
		if s.Name == value {
			return true
		}
	}
	return false
}
