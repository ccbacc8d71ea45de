package pacman

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// LocalDB reads the installed set from the local package database under
// <dbPath>/local, one directory per installed package.
type LocalDB struct {
	dbPath string
	log    ports.Logger
}

// NewLocalDB creates an installed provider over the given pacman db root.
func NewLocalDB(dbPath string, log ports.Logger) *LocalDB {
	return &LocalDB{dbPath: dbPath, log: log}
}

// Installed reads the local database into a fresh name-to-version snapshot.
// Entries without a usable name or version are skipped with a warning.
func (l *LocalDB) Installed(ctx context.Context) (domain.InstalledSet, error) {
	dir := filepath.Join(l.dbPath, "local")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(
			zerr.Wrap(err, domain.ErrSourceUnavailable.Error()),
			"path", dir,
		)
	}

	set := domain.InstalledSet{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		descPath := filepath.Join(dir, entry.Name(), "desc")
		// #nosec G304 -- path comes from the configured database directory
		f, err := os.Open(descPath)
		if err != nil {
			l.log.Warn("skipping unreadable local db entry", "entry", entry.Name())
			continue
		}
		fields, err := parseDesc(f)
		_ = f.Close()
		if err != nil || !fields.valid() {
			l.log.Warn("skipping malformed local db entry", "entry", entry.Name())
			continue
		}
		set[fields.first("NAME")] = fields.first("VERSION")
	}
	return set, nil
}
