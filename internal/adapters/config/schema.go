package config

// File represents the structure of the aurdex.yaml configuration file.
// Zero-valued fields fall back to the built-in defaults.
type File struct {
	CacheDir            string   `yaml:"cache_dir"`
	AURMetadataURL      string   `yaml:"aur_metadata_url"`
	PacmanDBPath        string   `yaml:"pacman_db_path"`
	SyncRepos           []string `yaml:"sync_repos"`
	IncludeCheckDepends bool     `yaml:"include_checkdepends"`
	MaxVisits           int      `yaml:"max_visits"`
	DefaultLimit        *int     `yaml:"default_limit"`
	LogJSON             bool     `yaml:"log_json"`
}
