package domain

// Settings is the loaded application configuration.
type Settings struct {
	// CacheDir is where fetched metadata blobs are kept.
	CacheDir string
	// AURMetadataURL is the untrusted-repo metadata archive location.
	AURMetadataURL string
	// PacmanDBPath is the root of the system package database.
	PacmanDBPath string
	// SyncRepos restricts official ingestion to these sync databases.
	// Empty means every *.db found under the sync directory.
	SyncRepos []string
	// IncludeCheckDepends opts check-dependencies into deep resolution.
	IncludeCheckDepends bool
	// MaxVisits caps the number of nodes one resolution call may visit.
	// Zero or negative means the built-in default.
	MaxVisits int
	// DefaultLimit is the search result cap when the caller gives none.
	DefaultLimit int
	// LogJSON switches structured log output to JSON.
	LogJSON bool
}

// Default resolution and query bounds.
const (
	DefaultMaxVisits   = 100_000
	DefaultSearchLimit = 20
)

// DefaultSettings returns the configuration used when no file is present.
func DefaultSettings() *Settings {
	return &Settings{
		CacheDir:       DefaultCacheDir(),
		AURMetadataURL: DefaultAURMetadataURL,
		PacmanDBPath:   DefaultPacmanDBPath,
		MaxVisits:      DefaultMaxVisits,
		DefaultLimit:   DefaultSearchLimit,
	}
}
