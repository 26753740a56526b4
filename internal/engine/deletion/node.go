package deletion

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shelf/internal/adapters/github"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/localstore" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/logger"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/token"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/shelf/internal/engine/existence"
	"go.trai.ch/shelf/internal/engine/loader"
)

// NodeID is the unique identifier for the deletion propagator Graft node.
const NodeID graft.ID = "engine.deletion"

func init() {
	graft.Register(graft.Node[*Propagator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			github.NodeID,
			token.NodeID,
			localstore.NodeID,
			localstore.BatcherNodeID,
			existence.NodeID,
			loader.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Propagator, error) {
			store, err := graft.Dep[ports.ContentStore](ctx)
			if err != nil {
				return nil, err
			}
			tokens, err := graft.Dep[*token.Manager](ctx)
			if err != nil {
				return nil, err
			}
			local, err := graft.Dep[ports.LocalStore](ctx)
			if err != nil {
				return nil, err
			}
			batcher, err := graft.Dep[*localstore.Batcher](ctx)
			if err != nil {
				return nil, err
			}
			checker, err := graft.Dep[*existence.Checker](ctx)
			if err != nil {
				return nil, err
			}
			lists, err := graft.Dep[*loader.Loader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(store, tokens, local, checker, lists, log, WithPendingWrites(batcher)), nil
		},
	})
}
