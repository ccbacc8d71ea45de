package aur_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurdex/internal/adapters/aur"
	"go.trai.ch/aurdex/internal/adapters/metacache"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
	"go.trai.ch/aurdex/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func setupAURTest(t *testing.T) (*metacache.Cache, ports.Logger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	cache, err := metacache.New(t.TempDir())
	require.NoError(t, err)
	return cache, mockLogger
}

// archive gzip-encodes a packages-meta-ext-v1 entry list.
func archive(t *testing.T, entries []map[string]any) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	require.NoError(t, json.NewEncoder(gz).Encode(entries))
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func entry(name, version string, lastModified int64) map[string]any {
	return map[string]any{
		"Name":         name,
		"PackageBase":  name,
		"Version":      version,
		"Maintainer":   "someone",
		"Depends":      []string{"glibc"},
		"LastModified": lastModified,
	}
}

const lastModified = "Wed, 01 Jan 2025 00:00:00 GMT"

func metaServer(t *testing.T, body []byte, hits *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		if r.Header.Get("If-Modified-Since") == lastModified {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Last-Modified", lastModified)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_SnapshotFetchesOnceThenUsesCache(t *testing.T) {
	cache, log := setupAURTest(t)
	hits := 0
	server := metaServer(t, archive(t, []map[string]any{
		entry("yay", "12.3.5-1", 100),
		entry("paru", "2.0.3-1", 200),
		{"Name": "", "Version": "1-1"},
	}), &hits)

	client := aur.NewClient(server.URL, cache, log)

	records, report, err := client.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Read)
	assert.Equal(t, 1, report.Malformed)
	require.Len(t, records, 2)
	assert.Equal(t, "yay", records[0].Name)
	assert.Equal(t, "someone", records[0].Maintainer)
	require.Len(t, records[0].Depends, 1)
	assert.Equal(t, "glibc", records[0].Depends[0].Name)

	// Second snapshot is served from the cache.
	_, _, err = client.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestClient_DeltaReturnsOnlyNewerRecords(t *testing.T) {
	cache, log := setupAURTest(t)
	body := archive(t, []map[string]any{
		entry("old-pkg", "1.0-1", 1735689500),   // before the marker
		entry("fresh-pkg", "2.0-1", 1735693200), // after the marker
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Last-Modified", "Wed, 01 Jan 2025 01:00:00 GMT")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	client := aur.NewClient(server.URL, cache, log)

	// 1735689600 == Wed, 01 Jan 2025 00:00:00 GMT.
	require.NoError(t, cache.Put(
		domain.AURLastModifiedFileName,
		[]byte(lastModified),
	))

	records, report, err := client.Delta(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Read)
	require.Len(t, records, 1)
	assert.Equal(t, "fresh-pkg", records[0].Name)
}

func TestClient_DeltaUnmodifiedRemoteIsEmpty(t *testing.T) {
	cache, log := setupAURTest(t)
	server := metaServer(t, archive(t, nil), nil)

	client := aur.NewClient(server.URL, cache, log)
	require.NoError(t, cache.Put(domain.AURLastModifiedFileName, []byte(lastModified)))

	records, report, err := client.Delta(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, report.Read)
}

func TestClient_DeltaWithoutMarkerKeepsEverything(t *testing.T) {
	cache, log := setupAURTest(t)
	server := metaServer(t, archive(t, []map[string]any{
		entry("any-pkg", "1.0-1", 5),
	}), nil)

	client := aur.NewClient(server.URL, cache, log)

	records, _, err := client.Delta(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "any-pkg", records[0].Name)
}

func TestClient_ServerErrorIsSourceUnavailable(t *testing.T) {
	cache, log := setupAURTest(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := aur.NewClient(server.URL, cache, log)
	_, _, err := client.Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrSourceUnavailable.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, server.URL, meta["url"])
	assert.Equal(t, http.StatusServiceUnavailable, meta["status"])
}

func TestClient_RefreshBypassesCache(t *testing.T) {
	cache, log := setupAURTest(t)
	hits := 0
	server := metaServer(t, archive(t, []map[string]any{
		entry("yay", "12.3.5-1", 100),
	}), &hits)

	client := aur.NewClient(server.URL, cache, log)
	_, _, err := client.Snapshot(context.Background())
	require.NoError(t, err)

	records, _, err := client.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, hits)
}

func TestClient_CachePathPointsIntoCache(t *testing.T) {
	cache, log := setupAURTest(t)
	client := aur.NewClient("http://unused.invalid", cache, log)
	assert.Equal(t, cache.Path(domain.AURSnapshotFileName), client.CachePath())
}
