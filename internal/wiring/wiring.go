// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/inkdeck/internal/adapters/config"
	_ "go.trai.ch/inkdeck/internal/adapters/inkscape"
	_ "go.trai.ch/inkdeck/internal/adapters/logger"
	_ "go.trai.ch/inkdeck/internal/adapters/merge"
	_ "go.trai.ch/inkdeck/internal/adapters/progress"
	_ "go.trai.ch/inkdeck/internal/adapters/svg"
	_ "go.trai.ch/inkdeck/internal/adapters/watcher"
	_ "go.trai.ch/inkdeck/internal/adapters/workdir"
	// Register app nodes.
	_ "go.trai.ch/inkdeck/internal/app"
)
