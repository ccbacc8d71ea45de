package aur

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurdex/internal/adapters/config"
	"go.trai.ch/aurdex/internal/adapters/logger"
	"go.trai.ch/aurdex/internal/adapters/metacache"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// NodeID is the unique identifier for the untrusted source Graft node.
const NodeID graft.ID = "adapter.aur"

func init() {
	graft.Register(graft.Node[ports.UntrustedSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.UntrustedSource, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cache, err := metacache.New(settings.CacheDir)
			if err != nil {
				return nil, err
			}
			return NewClient(settings.AURMetadataURL, cache, log), nil
		},
	})
}
