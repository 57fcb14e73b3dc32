package merge

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/inkdeck/internal/adapters/logger"
	"go.trai.ch/inkdeck/internal/core/ports"
)

// NodeID is the unique identifier for the merger finder Graft node.
const NodeID graft.ID = "adapter.merger_finder"

func init() {
	graft.Register(graft.Node[ports.MergerFinder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.MergerFinder, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFinder(log), nil
		},
	})
}
