package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurdex/internal/adapters/logger"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config"
	// SettingsNodeID is the unique identifier for the loaded settings
	// Graft node. Adapters that need paths or URLs depend on it.
	SettingsNodeID graft.ID = "adapter.config.settings"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[*domain.Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (*domain.Settings, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			return loader.Load(os.Getenv(domain.EnvConfigPath))
		},
	})
}
