// Package pacman reads package metadata from the system package database:
// sync db archives for the official repositories and the local db for the
// installed set.
package pacman

import (
	"bufio"
	"io"
	"strings"

	"go.trai.ch/aurdex/internal/core/domain"
)

// descFields holds one parsed desc entry: a %FIELD% header followed by one
// value per line, blocks separated by blank lines.
type descFields map[string][]string

// maxDescLine bounds a single desc line. Real entries stay far below this.
const maxDescLine = 1 << 20

// parseDesc reads a %FIELD% block file into its field lists.
func parseDesc(r io.Reader) (descFields, error) {
	fields := descFields{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDescLine)

	var current string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "":
			current = ""
		case len(line) > 2 && strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%"):
			current = line[1 : len(line)-1]
			if _, ok := fields[current]; !ok {
				fields[current] = []string{}
			}
		case current != "":
			fields[current] = append(fields[current], line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// first returns the first value of a field, or "".
func (f descFields) first(name string) string {
	values := f[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// specs parses a field's values as dependency specs.
func (f descFields) specs(name string) []domain.DependencySpec {
	values := f[name]
	if len(values) == 0 {
		return nil
	}
	specs := make([]domain.DependencySpec, 0, len(values))
	for _, v := range values {
		specs = append(specs, domain.ParseDependencySpec(v))
	}
	return specs
}

// record maps the parsed fields onto a package record. Validation of name
// and version is the caller's concern.
func (f descFields) record() domain.PackageRecord {
	return domain.PackageRecord{
		Name:         f.first("NAME"),
		Version:      f.first("VERSION"),
		Description:  f.first("DESC"),
		URL:          f.first("URL"),
		PackageBase:  f.first("BASE"),
		Arch:         f.first("ARCH"),
		Maintainer:   f.first("PACKAGER"),
		Depends:      f.specs("DEPENDS"),
		MakeDepends:  f.specs("MAKEDEPENDS"),
		CheckDepends: f.specs("CHECKDEPENDS"),
		OptDepends:   f.specs("OPTDEPENDS"),
		Provides:     f.specs("PROVIDES"),
		Conflicts:    f["CONFLICTS"],
		Replaces:     f["REPLACES"],
		License:      f["LICENSE"],
	}
}

// valid reports whether the entry carries an indexable name and version.
func (f descFields) valid() bool {
	if f.first("NAME") == "" {
		return false
	}
	_, err := domain.ParseVersion(f.first("VERSION"))
	return err == nil
}
