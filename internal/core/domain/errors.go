package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedRecord is returned for a source record that cannot be indexed.
	// Batch operations skip and count these, they never abort the batch.
	ErrMalformedRecord = zerr.New("malformed package record")

	// ErrSourceUnavailable is returned when a metadata source cannot be read.
	// The store retains its last-good snapshot when this happens.
	ErrSourceUnavailable = zerr.New("metadata source unavailable")

	// ErrStoreBusy is returned when a rebuild or update is already in progress.
	ErrStoreBusy = zerr.New("store busy: another rebuild or update is in progress")

	// ErrResolutionTruncated is returned when a resolution hits the node-visit ceiling.
	// The partial report is still valid and carries the Truncated flag.
	ErrResolutionTruncated = zerr.New("resolution truncated: node-visit ceiling reached")

	// ErrPackageNotFound is returned when a requested package exists in no source.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrUnknownFilterField is returned when a filter predicate names a field
	// outside the closed set of filterable fields.
	ErrUnknownFilterField = zerr.New("unknown filter field")

	// ErrInvalidPredicate is returned when a filter predicate cannot be parsed.
	ErrInvalidPredicate = zerr.New("invalid filter predicate")

	// ErrNoRootsSpecified is returned when a resolution is requested without roots.
	ErrNoRootsSpecified = zerr.New("no root packages specified")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrCacheCreateFailed is returned when the metadata cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create metadata cache directory")

	// ErrCacheReadFailed is returned when a cached metadata blob cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read metadata cache")

	// ErrCacheWriteFailed is returned when a cached metadata blob cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write metadata cache")
)
