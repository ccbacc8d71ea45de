// Package config provides the configuration loader for aurdex.
package config

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads settings from the given path. An empty path means the default
// user config location, where a missing file is not an error; an explicit
// path must exist.
func (l *Loader) Load(path string) (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	explicit := path != ""
	if !explicit {
		path = domain.DefaultConfigPath()
		if path == "" {
			return settings, nil
		}
	}

	var file File
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, err
	}

	apply(settings, &file)
	l.Logger.Info("configuration loaded", "path", path)
	return settings, nil
}

// apply overlays the non-zero file fields onto the defaults.
func apply(settings *domain.Settings, file *File) {
	if file.CacheDir != "" {
		settings.CacheDir = file.CacheDir
	}
	if file.AURMetadataURL != "" {
		settings.AURMetadataURL = file.AURMetadataURL
	}
	if file.PacmanDBPath != "" {
		settings.PacmanDBPath = file.PacmanDBPath
	}
	if len(file.SyncRepos) > 0 {
		settings.SyncRepos = file.SyncRepos
	}
	if file.MaxVisits > 0 {
		settings.MaxVisits = file.MaxVisits
	}
	if file.DefaultLimit != nil {
		settings.DefaultLimit = *file.DefaultLimit
	}
	settings.IncludeCheckDepends = file.IncludeCheckDepends
	settings.LogJSON = file.LogJSON
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target
// struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
