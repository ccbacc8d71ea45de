package domain

import (
	"os"
	"path/filepath"
)

const (
	// AppName is used for cache and config directory names.
	AppName = "aurdex"

	// ConfigFileName is the name of the user configuration file.
	ConfigFileName = "aurdex.yaml"

	// AURSnapshotFileName is the cached untrusted-repo metadata archive.
	AURSnapshotFileName = "packages-meta-ext-v1.json.gz"

	// AURLastModifiedFileName stores the last-modified marker of the
	// untrusted snapshot, used to compute incremental update reports.
	AURLastModifiedFileName = ".packages-meta-ext-v1.lastmodified"

	// EnvConfigPath names the environment variable that overrides the
	// default configuration file location.
	EnvConfigPath = "AURDEX_CONFIG"

	// EnvTrace names the environment variable that enables span logging.
	EnvTrace = "AURDEX_TRACE"

	// DefaultAURMetadataURL is the default remote metadata source.
	DefaultAURMetadataURL = "https://aur.archlinux.org/packages-meta-ext-v1.json.gz"

	// DefaultPacmanDBPath is the default root of the system package database.
	DefaultPacmanDBPath = "/var/lib/pacman"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCacheDir returns the per-user cache directory for metadata blobs.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, AppName)
}

// DefaultConfigPath returns the per-user configuration file path.
func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, AppName, ConfigFileName)
}
