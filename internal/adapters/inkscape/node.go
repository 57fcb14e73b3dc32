package inkscape

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/inkdeck/internal/adapters/logger"
	"go.trai.ch/inkdeck/internal/core/ports"
)

// NodeID is the unique identifier for the render engine Graft node.
const NodeID graft.ID = "adapter.engine"

func init() {
	graft.Register(graft.Node[ports.Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Engine, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(log), nil
		},
	})
}
