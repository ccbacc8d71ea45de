// Package metacache implements a content-addressed file cache for fetched
// metadata blobs.
package metacache

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"go.trai.ch/aurdex/internal/core/domain"
)

// Cache stores metadata blobs under a directory, one file per logical
// name, keyed by the name's hash.
type Cache struct {
	dir string
}

// New creates a cache rooted at dir, creating the directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheCreateFailed.Error())
	}
	return &Cache{dir: dir}, nil
}

// Path returns the on-disk location of a logical blob name. The file may
// not exist yet.
func (c *Cache) Path(name string) string {
	sum := xxhash.Sum64String(name)
	var key [8]byte
	for i := range key {
		key[i] = byte(sum >> (56 - 8*i))
	}
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".blob")
}

// Get retrieves a blob by its logical name. A missing blob yields
// (nil, nil).
func (c *Cache) Get(name string) ([]byte, error) {
	// #nosec G304 -- path is constructed from the cache dir and a hashed name
	data, err := os.ReadFile(c.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}
	return data, nil
}

// Put stores a blob under its logical name. The write is atomic: readers
// never observe a partially written blob.
func (c *Cache) Put(name string, data []byte) error {
	path := c.Path(name)
	tmp, err := os.CreateTemp(c.dir, ".put-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (c *Cache) Delete(name string) error {
	if err := os.Remove(c.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}
