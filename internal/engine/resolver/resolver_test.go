package resolver_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
	"go.trai.ch/aurdex/internal/core/ports/mocks"
	"go.trai.ch/aurdex/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

// fakeIndex answers provider lookups from a record list the way the store
// does: own-name and provides matches, official first, name ascending.
type fakeIndex struct {
	records []domain.PackageRecord
}

func (f *fakeIndex) ResolveProvider(spec domain.DependencySpec) []domain.ProviderChoice {
	var out []domain.ProviderChoice
	for i := range f.records {
		if f.records[i].ProvidesName(spec) {
			out = append(out, domain.ProviderChoice{Record: &f.records[i]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Record, out[j].Record
		if a.Source != b.Source {
			return a.Source == domain.SourceOfficial
		}
		return a.Name < b.Name
	})
	return out
}

func setupResolverTest(t *testing.T, installed domain.InstalledSet, records ...domain.PackageRecord) *resolver.Engine {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	provider := mocks.NewMockInstalledProvider(ctrl)
	provider.EXPECT().Installed(gomock.Any()).Return(installed, nil).AnyTimes()

	return resolver.New(&fakeIndex{records: records}, provider, logger, tracer)
}

func pkg(name string, source domain.Source, version string, depends ...string) domain.PackageRecord {
	rec := domain.PackageRecord{Name: name, Source: source, Version: version}
	for _, d := range depends {
		rec.Depends = append(rec.Depends, domain.ParseDependencySpec(d))
	}
	return rec
}

func nodeNames(nodes []*domain.ResolutionNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestResolver_EndToEndScenario(t *testing.T) {
	bash := pkg("bash", domain.SourceOfficial, "5.2-1")
	foo := pkg("foo", domain.SourceUntrusted, "1.0-1", "bash", "bar")

	t.Run("nothing installed", func(t *testing.T) {
		e := setupResolverTest(t, domain.InstalledSet{}, bash, foo)

		report, err := e.Resolve(context.Background(), []string{"foo"}, resolver.Options{Deep: true})
		require.NoError(t, err)

		assert.Equal(t, []string{"foo"}, nodeNames(report.NeedsBuild))
		assert.Equal(t, []string{"bash"}, nodeNames(report.RepoAvailable))
		assert.Empty(t, report.Satisfied)
		require.Len(t, report.Unresolvable, 1)
		assert.Equal(t, domain.UnresolvedDep{Name: "bar", Parent: "foo"}, report.Unresolvable[0])
		assert.Empty(t, report.Cycles)
		assert.False(t, report.Truncated)
	})

	t.Run("bash installed", func(t *testing.T) {
		e := setupResolverTest(t, domain.InstalledSet{"bash": "5.2-1"}, bash, foo)

		report, err := e.Resolve(context.Background(), []string{"foo"}, resolver.Options{Deep: true})
		require.NoError(t, err)

		assert.Equal(t, []string{"bash"}, nodeNames(report.Satisfied))
		assert.Empty(t, report.RepoAvailable)
		assert.Equal(t, []string{"foo"}, nodeNames(report.NeedsBuild))
	})
}

func TestResolver_CycleIsSymmetricAndTerminates(t *testing.T) {
	a := pkg("cycle-a", domain.SourceUntrusted, "1-1", "cycle-b")
	b := pkg("cycle-b", domain.SourceUntrusted, "1-1", "cycle-a")
	e := setupResolverTest(t, domain.InstalledSet{}, a, b)

	report, err := e.Resolve(context.Background(), []string{"cycle-a"}, resolver.Options{Deep: true})
	require.NoError(t, err)

	require.Len(t, report.Cycles, 1)
	assert.Equal(t, []string{"cycle-a", "cycle-b"}, report.Cycles[0])
	assert.Empty(t, report.NeedsBuild)
	assert.Empty(t, report.Unresolvable)
	assert.False(t, report.Truncated)
}

func TestResolver_ShallowStopsAtRootDependencies(t *testing.T) {
	root := pkg("root", domain.SourceUntrusted, "1-1", "middle")
	middle := pkg("middle", domain.SourceUntrusted, "1-1", "leaf")
	leaf := pkg("leaf", domain.SourceOfficial, "1-1")
	e := setupResolverTest(t, domain.InstalledSet{}, root, middle, leaf)

	report, err := e.Resolve(context.Background(), []string{"root"}, resolver.Options{})
	require.NoError(t, err)

	// middle is classified at depth 1 but never expanded, so leaf stays
	// out of the plan entirely.
	assert.Equal(t, []string{"middle", "root"}, nodeNames(report.NeedsBuild))
	assert.Empty(t, report.RepoAvailable)

	deep, err := e.Resolve(context.Background(), []string{"root"}, resolver.Options{Deep: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf"}, nodeNames(deep.RepoAvailable))
}

func TestResolver_DiamondMergesParents(t *testing.T) {
	top := pkg("top", domain.SourceUntrusted, "1-1", "left", "right")
	left := pkg("left", domain.SourceUntrusted, "1-1", "shared")
	right := pkg("right", domain.SourceUntrusted, "1-1", "shared")
	shared := pkg("shared", domain.SourceOfficial, "1-1")
	e := setupResolverTest(t, domain.InstalledSet{}, top, left, right, shared)

	report, err := e.Resolve(context.Background(), []string{"top"}, resolver.Options{Deep: true})
	require.NoError(t, err)

	require.Len(t, report.RepoAvailable, 1)
	node := report.RepoAvailable[0]
	assert.Equal(t, "shared", node.Name)
	assert.Equal(t, []string{"left", "right"}, node.ParentNames())
}

func TestResolver_NeedsBuildTopologicalOrder(t *testing.T) {
	app := pkg("app", domain.SourceUntrusted, "1-1", "libx", "liby")
	libx := pkg("libx", domain.SourceUntrusted, "1-1", "liby")
	liby := pkg("liby", domain.SourceUntrusted, "1-1")
	e := setupResolverTest(t, domain.InstalledSet{}, app, libx, liby)

	report, err := e.Resolve(context.Background(), []string{"app"}, resolver.Options{Deep: true})
	require.NoError(t, err)

	// liby builds before libx, libx before app.
	assert.Equal(t, []string{"liby", "libx", "app"}, nodeNames(report.NeedsBuild))
}

func TestResolver_VirtualProvider(t *testing.T) {
	helper := pkg("yay", domain.SourceUntrusted, "12.0-1")
	helper.Provides = []domain.DependencySpec{domain.ParseDependencySpec("aur-helper=12")}
	wants := pkg("wants-helper", domain.SourceUntrusted, "1-1", "aur-helper>=10")
	e := setupResolverTest(t, domain.InstalledSet{}, helper, wants)

	report, err := e.Resolve(context.Background(), []string{"wants-helper"}, resolver.Options{Deep: true})
	require.NoError(t, err)

	names := nodeNames(report.NeedsBuild)
	require.Len(t, names, 2)
	assert.Contains(t, names, "aur-helper")
	assert.Contains(t, names, "wants-helper")

	for _, n := range report.NeedsBuild {
		if n.Name == "aur-helper" {
			assert.Equal(t, "yay", n.Record.Name)
		}
	}
}

func TestResolver_InstalledVersionConstraint(t *testing.T) {
	bash := pkg("bash", domain.SourceOfficial, "6.0-1")
	needy := pkg("needy", domain.SourceUntrusted, "1-1", "bash>=6")
	e := setupResolverTest(t, domain.InstalledSet{"bash": "5.2-1"}, bash, needy)

	report, err := e.Resolve(context.Background(), []string{"needy"}, resolver.Options{Deep: true})
	require.NoError(t, err)

	// The installed bash is too old for the constraint; the repo copy is
	// planned instead.
	assert.Empty(t, report.Satisfied)
	assert.Equal(t, []string{"bash"}, nodeNames(report.RepoAvailable))
}

func TestResolver_CheckDependsOption(t *testing.T) {
	tested := pkg("tested", domain.SourceUntrusted, "1-1")
	tested.CheckDepends = []domain.DependencySpec{domain.ParseDependencySpec("testlib")}
	testlib := pkg("testlib", domain.SourceOfficial, "1-1")

	e := setupResolverTest(t, domain.InstalledSet{}, tested, testlib)
	ctx := context.Background()

	report, err := e.Resolve(ctx, []string{"tested"}, resolver.Options{Deep: true})
	require.NoError(t, err)
	assert.Empty(t, report.RepoAvailable)

	report, err = e.Resolve(ctx, []string{"tested"}, resolver.Options{Deep: true, IncludeCheckDepends: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"testlib"}, nodeNames(report.RepoAvailable))
}

func TestResolver_VisitCeilingTruncates(t *testing.T) {
	chain := []domain.PackageRecord{
		pkg("c0", domain.SourceUntrusted, "1-1", "c1"),
		pkg("c1", domain.SourceUntrusted, "1-1", "c2"),
		pkg("c2", domain.SourceUntrusted, "1-1", "c3"),
		pkg("c3", domain.SourceUntrusted, "1-1"),
	}
	e := setupResolverTest(t, domain.InstalledSet{}, chain...)

	report, err := e.Resolve(context.Background(), []string{"c0"}, resolver.Options{Deep: true, MaxVisits: 2})
	assert.ErrorIs(t, err, domain.ErrResolutionTruncated)
	require.NotNil(t, report)
	assert.True(t, report.Truncated)
	assert.Equal(t, []string{"c1", "c0"}, nodeNames(report.NeedsBuild))
}

func TestResolver_NoRoots(t *testing.T) {
	e := setupResolverTest(t, domain.InstalledSet{})
	_, err := e.Resolve(context.Background(), nil, resolver.Options{})
	assert.ErrorIs(t, err, domain.ErrNoRootsSpecified)
}

func TestResolver_MultipleRootsShareArena(t *testing.T) {
	r1 := pkg("root1", domain.SourceUntrusted, "1-1", "common")
	r2 := pkg("root2", domain.SourceUntrusted, "1-1", "common")
	common := pkg("common", domain.SourceOfficial, "1-1")
	e := setupResolverTest(t, domain.InstalledSet{}, r1, r2, common)

	report, err := e.Resolve(context.Background(), []string{"root1", "root2"}, resolver.Options{Deep: true})
	require.NoError(t, err)

	require.Len(t, report.RepoAvailable, 1)
	assert.Equal(t, []string{"root1", "root2"}, report.RepoAvailable[0].ParentNames())
}
