package ports

import (
	"io"

	"go.trai.ch/aurdex/internal/core/domain"
)

// Renderer turns query and resolution results into terminal output.
// It decouples the engines from presentation so the same data can drive
// plain, colored or machine-readable rendering.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// SearchResults writes a source/name/version table.
	SearchResults(w io.Writer, results []domain.PackageRecord) error

	// Plan writes the grouped installation plan for a resolution report.
	Plan(w io.Writer, report *domain.ResolutionReport) error

	// PackageDetails writes the enriched single-package view.
	PackageDetails(w io.Writer, details *domain.PackageDetails) error
}
