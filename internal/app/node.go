package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/inkdeck/internal/adapters/config"
	"go.trai.ch/inkdeck/internal/adapters/inkscape"
	"go.trai.ch/inkdeck/internal/adapters/logger"
	"go.trai.ch/inkdeck/internal/adapters/merge"
	"go.trai.ch/inkdeck/internal/adapters/progress"
	"go.trai.ch/inkdeck/internal/adapters/svg"
	watcheradapter "go.trai.ch/inkdeck/internal/adapters/watcher"
	"go.trai.ch/inkdeck/internal/adapters/workdir"
	"go.trai.ch/inkdeck/internal/core/ports"
)

// Components bundles the fully wired application for the CLI entry point.
type Components struct {
	App    *App
	Logger ports.Logger
}

const (
	// NodeID is the unique identifier for the app Graft node.
	NodeID graft.ID = "app"
	// ComponentsNodeID is the unique identifier for the components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			svg.NodeID,
			workdir.NodeID,
			inkscape.NodeID,
			merge.NodeID,
			watcheradapter.NodeID,
			progress.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			configLoader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			loader, err := graft.Dep[ports.DocumentLoader](ctx)
			if err != nil {
				return nil, err
			}
			workspace, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			engine, err := graft.Dep[ports.Engine](ctx)
			if err != nil {
				return nil, err
			}
			mergers, err := graft.Dep[ports.MergerFinder](ctx)
			if err != nil {
				return nil, err
			}
			watch, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			reporter, err := graft.Dep[ports.Reporter](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(configLoader, loader, workspace, engine, mergers, watch, reporter, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log}, nil
		},
	})
}
