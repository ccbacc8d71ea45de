package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
	"go.trai.ch/aurdex/internal/core/ports/mocks"
	"go.trai.ch/aurdex/internal/store"
	"go.uber.org/mock/gomock"
)

// setupStoreTest creates a store with quiet logger and tracer mocks.
func setupStoreTest(t *testing.T) *store.Store {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	return store.New(logger, tracer)
}

func rec(name, version string) domain.PackageRecord {
	return domain.PackageRecord{Name: name, Version: version}
}

func deps(names ...string) []domain.DependencySpec {
	out := make([]domain.DependencySpec, len(names))
	for i, n := range names {
		out[i] = domain.ParseDependencySpec(n)
	}
	return out
}

func TestStore_RebuildAndLookup(t *testing.T) {
	s := setupStoreTest(t)

	official := []domain.PackageRecord{rec("bash", "5.2.037-1"), rec("pacman", "7.0.0-1")}
	untrusted := []domain.PackageRecord{rec("bash", "5.3.rc1-1"), rec("yay", "12.3.5-1")}

	report, err := s.Rebuild(context.Background(), official, untrusted)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Official)
	assert.Equal(t, 2, report.Untrusted)
	assert.Equal(t, 0, report.Malformed)
	assert.Equal(t, 3, s.Size())

	got, err := s.Lookup("bash")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceOfficial, got.Source)
	assert.Equal(t, "5.2.037-1", got.Version)

	aur, err := s.LookupFrom("bash", domain.SourceUntrusted)
	require.NoError(t, err)
	assert.Equal(t, "5.3.rc1-1", aur.Version)

	_, err = s.Lookup("nonexistent")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)

	_, err = s.LookupFrom("pacman", domain.SourceUntrusted)
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestStore_RebuildSkipsMalformed(t *testing.T) {
	s := setupStoreTest(t)

	official := []domain.PackageRecord{
		rec("good", "1.0-1"),
		rec("", "1.0-1"),      // no name
		rec("noversion", ""),  // no version
		rec("badepoch", "x:1"),
	}

	report, err := s.Rebuild(context.Background(), official, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Malformed)
	assert.Equal(t, 1, s.Size())

	_, err = s.Lookup("noversion")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestStore_ResolveProvider(t *testing.T) {
	s := setupStoreTest(t)

	ffmpeg := rec("ffmpeg", "2:7.0-1")
	ffmpegGit := rec("ffmpeg-git", "8.0.r100-1")
	ffmpegGit.Provides = deps("ffmpeg=7.1")
	obsolete := rec("ffmpeg-compat", "4.4-1")
	obsolete.Provides = deps("ffmpeg=4.4")
	replacer := rec("ffmpeg-full", "7.0-1")
	replacer.Replaces = []string{"ffmpeg"}

	_, err := s.Rebuild(context.Background(),
		[]domain.PackageRecord{ffmpeg},
		[]domain.PackageRecord{ffmpegGit, obsolete, replacer},
	)
	require.NoError(t, err)

	choices := s.ResolveProvider(domain.ParseDependencySpec("ffmpeg>=6.0"))
	require.Len(t, choices, 3)
	assert.Equal(t, "ffmpeg", choices[0].Record.Name)
	assert.Equal(t, domain.SourceOfficial, choices[0].Record.Source)
	assert.Equal(t, "ffmpeg-git", choices[1].Record.Name)
	assert.False(t, choices[1].ViaReplaces)
	assert.Equal(t, "ffmpeg-full", choices[2].Record.Name)
	assert.True(t, choices[2].ViaReplaces)

	// Unconstrained spec also admits the older provider.
	choices = s.ResolveProvider(domain.ParseDependencySpec("ffmpeg"))
	assert.Len(t, choices, 4)
}

func TestStore_ReverseDependencies(t *testing.T) {
	s := setupStoreTest(t)

	app := rec("app", "1.0-1")
	app.Depends = deps("libfoo>=2", "libbar")
	app.MakeDepends = deps("libfoo")
	builder := rec("builder", "0.3-1")
	builder.CheckDepends = deps("libfoo")

	_, err := s.Rebuild(context.Background(),
		[]domain.PackageRecord{rec("libfoo", "2.1-1")},
		[]domain.PackageRecord{app, builder},
	)
	require.NoError(t, err)

	got := s.ReverseDependencies("libfoo")
	require.Len(t, got, 3)
	assert.Equal(t, domain.ReverseDependant{Name: "app", Source: domain.SourceUntrusted, LinkType: "depends"}, got[0])
	assert.Equal(t, domain.ReverseDependant{Name: "app", Source: domain.SourceUntrusted, LinkType: "makedepends"}, got[1])
	assert.Equal(t, domain.ReverseDependant{Name: "builder", Source: domain.SourceUntrusted, LinkType: "checkdepends"}, got[2])

	assert.Empty(t, s.ReverseDependencies("libbar-unused"))
}

func TestStore_RebuildIdempotent(t *testing.T) {
	s := setupStoreTest(t)
	ctx := context.Background()

	official := []domain.PackageRecord{rec("bash", "5.2.037-1")}
	untrusted := []domain.PackageRecord{rec("yay", "12.3.5-1")}

	_, err := s.Rebuild(ctx, official, untrusted)
	require.NoError(t, err)
	first := collectNames(s)

	_, err = s.Rebuild(ctx, official, untrusted)
	require.NoError(t, err)
	assert.Equal(t, first, collectNames(s))
}

func TestStore_UpdateCounts(t *testing.T) {
	s := setupStoreTest(t)
	ctx := context.Background()

	yay := rec("yay", "12.3.5-1")
	paru := rec("paru", "2.0.3-1")
	_, err := s.Rebuild(ctx, nil, []domain.PackageRecord{yay, paru})
	require.NoError(t, err)

	bumped := yay
	bumped.Version = "12.4.0-1"
	fresh := []domain.PackageRecord{bumped, paru, rec("pikaur", "1.32-1"), rec("", "1.0")}

	report, err := s.Update(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Changed)
	assert.Equal(t, 0, report.Removed)
	assert.Equal(t, 0, report.Stale)
	assert.Equal(t, 1, report.Malformed)

	got, err := s.Lookup("yay")
	require.NoError(t, err)
	assert.Equal(t, "12.4.0-1", got.Version)
}

func TestStore_UpdateStaleAndRemoval(t *testing.T) {
	s := setupStoreTest(t)
	ctx := context.Background()

	lib := rec("liborphan", "1.0-1")
	app := rec("app", "2.0-1")
	app.Depends = deps("liborphan")
	loner := rec("loner", "0.1-1")

	_, err := s.Rebuild(ctx, nil, []domain.PackageRecord{lib, app, loner})
	require.NoError(t, err)

	// Fresh pull dropped both liborphan and loner. app still depends on
	// liborphan, so it survives as a stale record; loner is gone.
	report, err := s.Update(ctx, []domain.PackageRecord{app})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stale)
	assert.Equal(t, 1, report.Removed)

	kept, err := s.Lookup("liborphan")
	require.NoError(t, err)
	assert.True(t, kept.Stale)

	_, err = s.Lookup("loner")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)

	// Reverse edges still resolve through the stale record.
	assert.Len(t, s.ReverseDependencies("liborphan"), 1)
}

func TestStore_UpdateKeepsOfficialHalf(t *testing.T) {
	s := setupStoreTest(t)
	ctx := context.Background()

	_, err := s.Rebuild(ctx,
		[]domain.PackageRecord{rec("bash", "5.2.037-1")},
		[]domain.PackageRecord{rec("yay", "12.3.5-1")},
	)
	require.NoError(t, err)

	_, err = s.Update(ctx, []domain.PackageRecord{rec("paru", "2.0.3-1")})
	require.NoError(t, err)

	got, err := s.Lookup("bash")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceOfficial, got.Source)
}

func TestStore_AllSnapshotIsolation(t *testing.T) {
	s := setupStoreTest(t)
	ctx := context.Background()

	_, err := s.Rebuild(ctx, nil, []domain.PackageRecord{rec("aaa", "1-1"), rec("zzz", "1-1")})
	require.NoError(t, err)

	// Acquire the sequence first, then mutate; the iteration must reflect
	// the generation current at acquisition time.
	seq := s.All()
	_, err = s.Update(ctx, []domain.PackageRecord{rec("mmm", "1-1")})
	require.NoError(t, err)

	var names []string
	for r := range seq {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"aaa", "zzz"}, names)

	// A fresh iterator sees the post-update generation, and restarts.
	for range 2 {
		names = names[:0]
		for r := range s.All() {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"mmm"}, names)
	}
}

func TestStore_AllOrdersOfficialFirst(t *testing.T) {
	s := setupStoreTest(t)

	_, err := s.Rebuild(context.Background(),
		[]domain.PackageRecord{rec("bash", "5.2-1")},
		[]domain.PackageRecord{rec("bash", "5.3-1"), rec("aurutils", "20-1")},
	)
	require.NoError(t, err)

	type entry struct {
		name   string
		source domain.Source
	}
	var got []entry
	for r := range s.All() {
		got = append(got, entry{r.Name, r.Source})
	}
	assert.Equal(t, []entry{
		{"aurutils", domain.SourceUntrusted},
		{"bash", domain.SourceOfficial},
		{"bash", domain.SourceUntrusted},
	}, got)
}

func TestStore_WriterContention(t *testing.T) {
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	entered := make(chan struct{})
	release := make(chan struct{})
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			// First writer parks here while holding the writer lock.
			close(entered)
			<-release
			return ctx, span
		},
	)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	s := store.New(logger, tracer)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := s.Rebuild(ctx, []domain.PackageRecord{rec("bash", "5.2-1")}, nil)
		done <- err
	}()

	<-entered
	_, err := s.Update(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrStoreBusy)

	// Readers never block on a writer.
	assert.Equal(t, 0, s.Size())

	close(release)
	require.NoError(t, <-done)

	_, err = s.Update(ctx, []domain.PackageRecord{rec("yay", "12-1")})
	require.NoError(t, err)
}

func collectNames(s *store.Store) []string {
	var names []string
	for r := range s.All() {
		names = append(names, r.Name)
	}
	return names
}
