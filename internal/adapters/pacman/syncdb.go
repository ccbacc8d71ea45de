package pacman

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// SyncDB reads the official repository state from the sync databases
// under <dbPath>/sync. Each *.db file is a (usually gzip-compressed) tar
// archive of per-package desc entries.
type SyncDB struct {
	dbPath string
	repos  []string
	log    ports.Logger
}

// NewSyncDB creates an official source over the given pacman db root.
// An empty repos list means every sync database found.
func NewSyncDB(dbPath string, repos []string, log ports.Logger) *SyncDB {
	return &SyncDB{dbPath: dbPath, repos: repos, log: log}
}

// Snapshot reads every selected sync database. Malformed entries are
// skipped and counted; an unreadable database directory is fatal.
func (s *SyncDB) Snapshot(ctx context.Context) ([]domain.PackageRecord, *ports.IngestReport, error) {
	dir := filepath.Join(s.dbPath, "sync")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, zerr.With(
			zerr.Wrap(err, domain.ErrSourceUnavailable.Error()),
			"path", dir,
		)
	}

	selected := map[string]bool{}
	for _, repo := range s.repos {
		selected[repo] = true
	}

	var records []domain.PackageRecord
	report := &ports.IngestReport{}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		repo := strings.TrimSuffix(entry.Name(), ".db")
		if len(selected) > 0 && !selected[repo] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		path := filepath.Join(dir, entry.Name())
		dbRecords, malformed, err := s.readDB(path)
		if err != nil {
			return nil, nil, zerr.With(err, "database", entry.Name())
		}
		records = append(records, dbRecords...)
		report.Read += len(dbRecords)
		report.Malformed += malformed
	}

	s.log.Info("official snapshot read",
		"records", report.Read, "malformed", report.Malformed)
	return records, report, nil
}

// readDB reads one sync database archive.
func (s *SyncDB) readDB(path string) ([]domain.PackageRecord, int, error) {
	// #nosec G304 -- path comes from the configured database directory
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, zerr.Wrap(err, domain.ErrSourceUnavailable.Error())
	}
	defer func() { _ = f.Close() }()

	var raw io.Reader = f
	gz, err := gzip.NewReader(f)
	switch {
	case err == nil:
		defer func() { _ = gz.Close() }()
		raw = gz
	case errors.Is(err, gzip.ErrHeader):
		// Some mirrors serve uncompressed databases.
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, 0, zerr.Wrap(err, domain.ErrSourceUnavailable.Error())
		}
	default:
		return nil, 0, zerr.Wrap(err, domain.ErrSourceUnavailable.Error())
	}

	var records []domain.PackageRecord
	malformed := 0
	tr := tar.NewReader(raw)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, zerr.Wrap(err, domain.ErrSourceUnavailable.Error())
		}
		if header.Typeflag != tar.TypeReg || filepath.Base(header.Name) != "desc" {
			continue
		}

		fields, err := parseDesc(tr)
		if err != nil || !fields.valid() {
			malformed++
			s.log.Warn("skipping malformed sync db entry",
				"archive", filepath.Base(path), "entry", header.Name)
			continue
		}
		records = append(records, fields.record())
	}
	return records, malformed, nil
}
