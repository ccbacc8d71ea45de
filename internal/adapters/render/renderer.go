// Package render turns query and resolution results into terminal output.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
	"go.trai.ch/aurdex/internal/ui/output"
	"go.trai.ch/aurdex/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with termenv-styled plain text.
type Renderer struct {
	profile termenv.Profile
}

// New creates a renderer using the environment's color profile.
// NO_COLOR disables styling entirely.
func New() *Renderer {
	return &Renderer{profile: output.ColorProfile()}
}

// SearchResults writes one entry per result: a source/name header line with
// version and state markers, then the indented description.
func (r *Renderer) SearchResults(w io.Writer, results []domain.PackageRecord) error {
	out := termenv.NewOutput(w, termenv.WithProfile(r.profile))

	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no matching packages")
		return err
	}

	for i := range results {
		rec := &results[i]
		line := out.String(string(rec.Source)+"/"+rec.Name).Bold().String() +
			" " + out.String(rec.Version).Foreground(termenv.ANSIGreen).String()
		if rec.OutOfDate {
			line += " " + out.String("(out-of-date)").Foreground(termenv.ANSIRed).String()
		}
		if rec.Abandoned() {
			line += " " + out.String("(orphan)").Foreground(termenv.ANSIYellow).String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if rec.Description != "" {
			if _, err := fmt.Fprintln(w, "    "+rec.Description); err != nil {
				return err
			}
		}
	}
	return nil
}

// Plan writes the grouped installation plan: cycles first, then satisfied,
// repository installs, the AUR build order and finally unresolvable gaps.
func (r *Renderer) Plan(w io.Writer, report *domain.ResolutionReport) error {
	out := termenv.NewOutput(w, termenv.WithProfile(r.profile))

	if report.Empty() {
		_, err := fmt.Fprintln(w, "nothing to do")
		return err
	}

	p := &planWriter{w: w, out: out}

	if len(report.Cycles) > 0 {
		p.section("Dependency cycles:")
		for _, cycle := range report.Cycles {
			loop := append(append([]string{}, cycle...), cycle[0])
			p.line("  %s %s",
				out.String(style.Warning).Foreground(termenv.ANSIYellow),
				strings.Join(loop, " -> "))
		}
	}

	if len(report.Satisfied) > 0 {
		p.section("Already satisfied:")
		for _, node := range report.Satisfied {
			p.line("  %s %s",
				out.String(style.Check).Foreground(termenv.ANSIGreen), node.Name)
		}
	}

	if len(report.RepoAvailable) > 0 {
		p.section("Install from repositories:")
		for _, node := range report.RepoAvailable {
			p.line("  %s %s %s",
				out.String(style.Dot).Foreground(termenv.ANSIGreen),
				node.Name, nodeVersion(node))
		}
	}

	if len(report.NeedsBuild) > 0 {
		p.section("Build from AUR, in dependency order:")
		for i, node := range report.NeedsBuild {
			p.line("  %d. %s %s", i+1, node.Name, nodeVersion(node))
		}
	}

	if len(report.Unresolvable) > 0 {
		p.section("Unresolvable:")
		for _, dep := range report.Unresolvable {
			p.line("  %s %s  (needed by %s)",
				out.String(style.Cross).Foreground(termenv.ANSIRed),
				dep.Name, dep.Parent)
		}
	}

	if report.Truncated {
		p.section(out.String("resolution stopped at the visit ceiling; the plan may be incomplete").
			Foreground(termenv.ANSIYellow).String())
	}
	return p.err
}

// PackageDetails writes the enriched single-package view: the field table,
// each dependency list with its chosen provider, and the reverse
// dependants grouped by provided name.
func (r *Renderer) PackageDetails(w io.Writer, details *domain.PackageDetails) error {
	out := termenv.NewOutput(w, termenv.WithProfile(r.profile))
	rec := details.Record
	p := &planWriter{w: w, out: out}

	field := func(name, value string) {
		if value == "" {
			return
		}
		p.line("%-15s: %s", name, value)
	}

	field("Name", out.String(rec.Name).Bold().String())
	field("Version", out.String(rec.Version).Foreground(termenv.ANSIGreen).String())
	field("Description", rec.Description)
	field("URL", rec.URL)
	field("Source", string(rec.Source))
	if rec.PackageBase != "" && rec.PackageBase != rec.Name {
		field("Package base", rec.PackageBase)
	}
	field("Architecture", rec.Arch)
	field("Licenses", strings.Join(rec.License, ", "))
	field("Keywords", strings.Join(rec.Keywords, ", "))
	if rec.Maintainer == "" {
		field("Maintainer", out.String("none (orphan)").Foreground(termenv.ANSIYellow).String())
	} else {
		field("Maintainer", rec.Maintainer)
	}
	field("Submitter", rec.Submitter)
	field("Co-maintainers", strings.Join(rec.CoMaintainers, ", "))
	if rec.Source == domain.SourceUntrusted {
		field("Votes", fmt.Sprintf("%d", rec.NumVotes))
		field("Popularity", fmt.Sprintf("%.2f", rec.Popularity))
		if rec.OutOfDate {
			field("Out of date", out.String("yes").Foreground(termenv.ANSIRed).String())
		}
	}
	if details.InstalledVersion != "" {
		field("Installed", details.InstalledVersion)
	}

	r.depSection(p, "Depends:", details.Depends)
	r.depSection(p, "Make depends:", details.MakeDepends)
	r.depSection(p, "Check depends:", details.CheckDepends)
	r.optSection(p, details.OptDepends)
	r.dependantSections(p, details)
	return p.err
}

// depSection writes one dependency list with provider annotations.
func (r *Renderer) depSection(p *planWriter, header string, deps []domain.EnrichedDependency) {
	if len(deps) == 0 {
		return
	}
	p.section(header)
	for _, dep := range deps {
		p.line("  %s", r.depLine(p.out, dep))
	}
}

// depLine formats one dependency with its chosen provider.
func (r *Renderer) depLine(out *termenv.Output, dep domain.EnrichedDependency) string {
	spec := dep.Spec.String()
	choice := chooseProvider(dep.Providers)
	switch {
	case choice == nil:
		return out.String(style.Cross).Foreground(termenv.ANSIRed).String() +
			" " + spec + "  (no provider)"
	case choice.Installed:
		return out.String(style.Check).Foreground(termenv.ANSIGreen).String() +
			" " + spec + "  [installed " + choice.Record.Version + "]"
	case choice.ViaReplaces:
		return out.String(style.Warning).Foreground(termenv.ANSIYellow).String() +
			" " + spec + "  (replaced by " + choice.Record.Name + ")"
	default:
		return out.String(style.Dot).Foreground(termenv.ANSIGreen).String() +
			" " + spec + "  (" + string(choice.Record.Source) + ": " +
			choice.Record.Name + " " + choice.Record.Version + ")"
	}
}

// optSection writes the advisory optional dependencies.
func (r *Renderer) optSection(p *planWriter, deps []domain.EnrichedDependency) {
	if len(deps) == 0 {
		return
	}
	p.section("Optional depends:")
	for _, dep := range deps {
		line := "  " + style.Circle + " " + dep.Spec.String()
		if dep.Spec.Description != "" {
			line += ": " + dep.Spec.Description
		}
		p.line("%s", line)
	}
}

// dependantSections writes the reverse dependants, the package's own name
// first, then each provided name in order.
func (r *Renderer) dependantSections(p *planWriter, details *domain.PackageDetails) {
	names := make([]string, 0, len(details.Dependants))
	for name := range details.Dependants {
		if name != details.Record.Name {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := details.Dependants[details.Record.Name]; ok {
		names = append([]string{details.Record.Name}, names...)
	}

	for _, name := range names {
		dependants := details.Dependants[name]
		if len(dependants) == 0 {
			continue
		}
		header := "Required by:"
		if name != details.Record.Name {
			header = "Required by, as " + name + ":"
		}
		p.section(header)
		for _, d := range dependants {
			line := "  " + d.Name + " (" + string(d.Source)
			if d.LinkType != "depends" {
				line += ", " + d.LinkType
			}
			p.line("%s", line+")")
		}
	}
}

// chooseProvider picks the provider to display: an installed one first,
// then the first direct provider, then a replacer.
func chooseProvider(providers []domain.ProviderChoice) *domain.ProviderChoice {
	for i := range providers {
		if providers[i].Installed {
			return &providers[i]
		}
	}
	for i := range providers {
		if !providers[i].ViaReplaces {
			return &providers[i]
		}
	}
	if len(providers) > 0 {
		return &providers[0]
	}
	return nil
}

func nodeVersion(node *domain.ResolutionNode) string {
	if node.Record == nil {
		return ""
	}
	return node.Record.Version
}

// planWriter tracks section spacing and the first write error.
type planWriter struct {
	w     io.Writer
	out   *termenv.Output
	wrote bool
	err   error
}

// section writes a bold header, preceded by a blank line after the first
// section.
func (p *planWriter) section(header string) {
	if p.wrote {
		p.line("")
	}
	p.line("%s", p.out.String(header).Bold())
}

func (p *planWriter) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	if format == "" {
		_, p.err = fmt.Fprintln(p.w)
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
	p.wrote = true
}
