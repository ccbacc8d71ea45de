package pacman

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurdex/internal/adapters/config"
	"go.trai.ch/aurdex/internal/adapters/logger"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

const (
	// SyncNodeID is the unique identifier for the official source Graft node.
	SyncNodeID graft.ID = "adapter.pacman.sync"
	// LocalNodeID is the unique identifier for the installed provider Graft node.
	LocalNodeID graft.ID = "adapter.pacman.local"
)

func init() {
	graft.Register(graft.Node[ports.OfficialSource]{
		ID:        SyncNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.OfficialSource, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSyncDB(settings.PacmanDBPath, settings.SyncRepos, log), nil
		},
	})

	graft.Register(graft.Node[ports.InstalledProvider]{
		ID:        LocalNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.InstalledProvider, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLocalDB(settings.PacmanDBPath, log), nil
		},
	})
}
