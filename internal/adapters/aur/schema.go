// Package aur fetches and parses the community repository metadata
// archive.
package aur

import (
	"go.trai.ch/aurdex/internal/core/domain"
)

// metaRecord is one entry of the packages-meta-ext-v1 JSON archive.
// Nullable upstream fields use pointer types.
type metaRecord struct {
	Name           string   `json:"Name"`
	PackageBase    string   `json:"PackageBase"`
	Version        string   `json:"Version"`
	Description    string   `json:"Description"`
	URL            string   `json:"URL"`
	Maintainer     string   `json:"Maintainer"`
	Submitter      string   `json:"Submitter"`
	CoMaintainers  []string `json:"CoMaintainers"`
	Depends        []string `json:"Depends"`
	MakeDepends    []string `json:"MakeDepends"`
	CheckDepends   []string `json:"CheckDepends"`
	OptDepends     []string `json:"OptDepends"`
	Provides       []string `json:"Provides"`
	Conflicts      []string `json:"Conflicts"`
	Replaces       []string `json:"Replaces"`
	License        []string `json:"License"`
	Keywords       []string `json:"Keywords"`
	OutOfDate      *int64   `json:"OutOfDate"`
	NumVotes       int      `json:"NumVotes"`
	Popularity     float64  `json:"Popularity"`
	FirstSubmitted int64    `json:"FirstSubmitted"`
	LastModified   int64    `json:"LastModified"`
}

func parseSpecs(raw []string) []domain.DependencySpec {
	if len(raw) == 0 {
		return nil
	}
	specs := make([]domain.DependencySpec, 0, len(raw))
	for _, r := range raw {
		specs = append(specs, domain.ParseDependencySpec(r))
	}
	return specs
}

// record maps the archive entry onto a package record.
func (m *metaRecord) record() domain.PackageRecord {
	return domain.PackageRecord{
		Name:           m.Name,
		Version:        m.Version,
		Description:    m.Description,
		URL:            m.URL,
		PackageBase:    m.PackageBase,
		Maintainer:     m.Maintainer,
		Submitter:      m.Submitter,
		CoMaintainers:  m.CoMaintainers,
		Depends:        parseSpecs(m.Depends),
		MakeDepends:    parseSpecs(m.MakeDepends),
		CheckDepends:   parseSpecs(m.CheckDepends),
		OptDepends:     parseSpecs(m.OptDepends),
		Provides:       parseSpecs(m.Provides),
		Conflicts:      m.Conflicts,
		Replaces:       m.Replaces,
		License:        m.License,
		Keywords:       m.Keywords,
		OutOfDate:      m.OutOfDate != nil,
		NumVotes:       m.NumVotes,
		Popularity:     m.Popularity,
		FirstSubmitted: m.FirstSubmitted,
		LastModified:   m.LastModified,
	}
}

// valid reports whether the entry carries an indexable name and version.
func (m *metaRecord) valid() bool {
	if m.Name == "" {
		return false
	}
	_, err := domain.ParseVersion(m.Version)
	return err == nil
}
