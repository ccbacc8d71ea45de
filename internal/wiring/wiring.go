// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/aurdex/internal/adapters/aur"
	_ "go.trai.ch/aurdex/internal/adapters/config"
	_ "go.trai.ch/aurdex/internal/adapters/logger"
	_ "go.trai.ch/aurdex/internal/adapters/pacman"
	_ "go.trai.ch/aurdex/internal/adapters/render"
	_ "go.trai.ch/aurdex/internal/adapters/watcher"
	// Register the app node.
	_ "go.trai.ch/aurdex/internal/app"
)
