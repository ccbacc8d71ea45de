package aur

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/aurdex/internal/adapters/metacache"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// fetchTimeout bounds one metadata download attempt.
const fetchTimeout = 5 * time.Minute

// Client implements ports.UntrustedSource over the community metadata
// archive. Downloads are kept in the blob cache so restarts and failed
// refreshes fall back to the last good copy.
type Client struct {
	url   string
	cache *metacache.Cache
	http  *http.Client
	log   ports.Logger
}

// NewClient creates an untrusted source for the given archive URL.
func NewClient(url string, cache *metacache.Cache, log ports.Logger) *Client {
	return &Client{
		url:   url,
		cache: cache,
		http:  &http.Client{Timeout: fetchTimeout},
		log:   log,
	}
}

// CachePath returns the on-disk location of the cached archive, for
// file-watch based refresh.
func (c *Client) CachePath() string {
	return c.cache.Path(domain.AURSnapshotFileName)
}

// Snapshot returns the full untrusted repository state. A cached archive
// is used as-is; the remote is contacted only when no cache exists.
func (c *Client) Snapshot(ctx context.Context) ([]domain.PackageRecord, *ports.IngestReport, error) {
	blob, err := c.cache.Get(domain.AURSnapshotFileName)
	if err != nil {
		return nil, nil, err
	}
	if blob == nil {
		if blob, _, err = c.fetch(ctx, ""); err != nil {
			return nil, nil, err
		}
	}
	return c.parse(blob, 0)
}

// Delta fetches fresh metadata and returns only the records modified since
// the previous pull. An unmodified remote yields an empty result. One
// attempt per call; the caller decides whether a failure is fatal.
func (c *Client) Delta(ctx context.Context) ([]domain.PackageRecord, *ports.IngestReport, error) {
	marker, err := c.cache.Get(domain.AURLastModifiedFileName)
	if err != nil {
		return nil, nil, err
	}

	since := strings.TrimSpace(string(marker))
	blob, notModified, err := c.fetch(ctx, since)
	if err != nil {
		return nil, nil, err
	}
	if notModified {
		c.log.Info("metadata archive unchanged", "since", since)
		return nil, &ports.IngestReport{}, nil
	}

	var after int64
	if since != "" {
		if t, err := http.ParseTime(since); err == nil {
			after = t.Unix()
		}
	}
	return c.parse(blob, after)
}

// Refresh discards the cached archive and downloads a fresh copy,
// returning the full new state.
func (c *Client) Refresh(ctx context.Context) ([]domain.PackageRecord, *ports.IngestReport, error) {
	blob, _, err := c.fetch(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	return c.parse(blob, 0)
}

// fetch downloads the archive, storing blob and last-modified marker in
// the cache. A non-empty since value is sent as If-Modified-Since;
// notModified reports a 304 answer.
func (c *Client) fetch(ctx context.Context, since string) (blob []byte, notModified bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, false, zerr.Wrap(err, domain.ErrSourceUnavailable.Error())
	}
	if since != "" {
		req.Header.Set("If-Modified-Since", since)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, zerr.With(
			zerr.Wrap(err, domain.ErrSourceUnavailable.Error()),
			"url", c.url,
		)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotModified {
		return nil, true, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := zerr.Wrap(domain.ErrSourceUnavailable, "unexpected response status")
		err = zerr.With(err, "url", c.url)
		err = zerr.With(err, "status", resp.StatusCode)
		return nil, false, err
	}

	blob, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, zerr.Wrap(err, domain.ErrSourceUnavailable.Error())
	}

	if err := c.cache.Put(domain.AURSnapshotFileName, blob); err != nil {
		return nil, false, err
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if err := c.cache.Put(domain.AURLastModifiedFileName, []byte(lm)); err != nil {
			return nil, false, err
		}
	}
	c.log.Info("metadata archive fetched", "url", c.url, "bytes", len(blob))
	return blob, false, nil
}

// parse decodes the gzipped JSON archive. Records at or before the after
// timestamp are dropped; zero keeps everything. Malformed entries are
// skipped and counted.
func (c *Client) parse(blob []byte, after int64) ([]domain.PackageRecord, *ports.IngestReport, error) {
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, nil, zerr.Wrap(err, domain.ErrSourceUnavailable.Error())
	}
	defer func() { _ = gz.Close() }()

	var entries []metaRecord
	if err := json.NewDecoder(gz).Decode(&entries); err != nil {
		return nil, nil, zerr.Wrap(err, domain.ErrSourceUnavailable.Error())
	}

	var records []domain.PackageRecord
	report := &ports.IngestReport{}
	for i := range entries {
		entry := &entries[i]
		if after > 0 && entry.LastModified <= after {
			continue
		}
		if !entry.valid() {
			report.Malformed++
			c.log.Warn("skipping malformed archive entry", "name", entry.Name)
			continue
		}
		records = append(records, entry.record())
		report.Read++
	}
	return records, report, nil
}
