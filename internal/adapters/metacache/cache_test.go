package metacache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurdex/internal/adapters/metacache"
)

func TestCache_RoundTrip(t *testing.T) {
	cache, err := metacache.New(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	missing, err := cache.Get("never-stored")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, cache.Put("snapshot", []byte("first")))
	data, err := cache.Get("snapshot")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	// Overwrite replaces the previous blob.
	require.NoError(t, cache.Put("snapshot", []byte("second")))
	data, err = cache.Get("snapshot")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestCache_PathIsStablePerName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blobs")
	cache, err := metacache.New(dir)
	require.NoError(t, err)

	assert.Equal(t, cache.Path("a"), cache.Path("a"))
	assert.NotEqual(t, cache.Path("a"), cache.Path("b"))
	assert.Equal(t, dir, filepath.Dir(cache.Path("a")))
}

func TestCache_Delete(t *testing.T) {
	cache, err := metacache.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cache.Put("blob", []byte("x")))
	require.NoError(t, cache.Delete("blob"))
	data, err := cache.Get("blob")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, cache.Delete("blob"))
}

func TestCache_PutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	cache, err := metacache.New(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Put("blob", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
