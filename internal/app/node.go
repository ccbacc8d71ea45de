package app

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurdex/internal/adapters/aur"
	"go.trai.ch/aurdex/internal/adapters/config"
	"go.trai.ch/aurdex/internal/adapters/logger"
	"go.trai.ch/aurdex/internal/adapters/pacman"
	"go.trai.ch/aurdex/internal/adapters/render"
	"go.trai.ch/aurdex/internal/adapters/telemetry"
	"go.trai.ch/aurdex/internal/adapters/watcher"
	"go.trai.ch/aurdex/internal/core/domain"
	"go.trai.ch/aurdex/internal/core/ports"
)

// NodeID is the unique identifier for the application Graft node.
const NodeID graft.ID = "app"

// Components bundles the fully wired application with the pieces the
// entry point needs directly.
type Components struct {
	App      *App
	Logger   ports.Logger
	Settings *domain.Settings
	// Shutdown flushes telemetry. Safe to call when tracing is disabled.
	Shutdown func(context.Context) error
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			config.SettingsNodeID,
			pacman.SyncNodeID,
			pacman.LocalNodeID,
			aur.NodeID,
			render.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			official, err := graft.Dep[ports.OfficialSource](ctx)
			if err != nil {
				return nil, err
			}
			untrusted, err := graft.Dep[ports.UntrustedSource](ctx)
			if err != nil {
				return nil, err
			}
			installed, err := graft.Dep[ports.InstalledProvider](ctx)
			if err != nil {
				return nil, err
			}
			renderer, err := graft.Dep[ports.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			fswatcher, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			log.SetJSON(settings.LogJSON)

			// Span logging is opt-in; the default tracer costs nothing.
			var tracer ports.Tracer = telemetry.NewNoOpTracer()
			shutdown := func(context.Context) error { return nil }
			if os.Getenv(domain.EnvTrace) != "" {
				shutdown = telemetry.Setup(log)
				tracer = telemetry.NewOTelTracer(domain.AppName)
			}

			application := New(settings, log, tracer, official, untrusted, installed, renderer, fswatcher)
			if client, ok := untrusted.(*aur.Client); ok {
				application = application.WithAURCachePath(client.CachePath())
			}
			return &Components{
				App:      application,
				Logger:   log,
				Settings: settings,
				Shutdown: shutdown,
			}, nil
		},
	})
}
