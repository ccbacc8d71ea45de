package ports

import "go.trai.ch/aurdex/internal/core/domain"

// ConfigLoader loads the application settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads settings from the given path, or from the default user
	// config location when path is empty. A missing file yields defaults.
	Load(path string) (*domain.Settings, error)
}
