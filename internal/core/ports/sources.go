// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/aurdex/internal/core/domain"
)

// IngestReport counts the outcome of reading one metadata source.
// Malformed entries are skipped and counted, never fatal.
type IngestReport struct {
	Read      int
	Malformed int
}

// OfficialSource supplies the trusted repository snapshot, typically read
// from the local system package database. It is rebuild-only: no
// incremental delta is available for official records.
//
//go:generate mockgen -source=sources.go -destination=mocks/mock_sources.go -package=mocks
type OfficialSource interface {
	// Snapshot reads the full official repository state.
	Snapshot(ctx context.Context) ([]domain.PackageRecord, *IngestReport, error)
}

// UntrustedSource supplies the community (AUR-like) metadata snapshot.
type UntrustedSource interface {
	// Snapshot reads the full untrusted repository state, fetching it if
	// no usable cached copy exists.
	Snapshot(ctx context.Context) ([]domain.PackageRecord, *IngestReport, error)

	// Delta fetches fresh metadata and returns only records whose
	// last-modified marker is newer than the previous pull.
	Delta(ctx context.Context) ([]domain.PackageRecord, *IngestReport, error)

	// Refresh discards any cached copy and downloads the state anew.
	Refresh(ctx context.Context) ([]domain.PackageRecord, *IngestReport, error)
}

// InstalledProvider supplies the local system's installed-package state.
// The returned set is an immutable snapshot, queried fresh per resolution.
type InstalledProvider interface {
	Installed(ctx context.Context) (domain.InstalledSet, error)
}
