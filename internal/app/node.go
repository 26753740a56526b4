package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shelf/internal/adapters/localstore" //nolint:depguard // Wired in app layer
	"go.trai.ch/shelf/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/shelf/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/shelf/internal/adapters/token"      //nolint:depguard // Wired in app layer
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/shelf/internal/engine/deletion"
	"go.trai.ch/shelf/internal/engine/existence"
	"go.trai.ch/shelf/internal/engine/loader"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			existence.NodeID,
			loader.NodeID,
			deletion.NodeID,
			token.NodeID,
			localstore.BatcherNodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			checker, err := graft.Dep[*existence.Checker](ctx)
			if err != nil {
				return nil, err
			}
			files, err := graft.Dep[*loader.Loader](ctx)
			if err != nil {
				return nil, err
			}
			propagator, err := graft.Dep[*deletion.Propagator](ctx)
			if err != nil {
				return nil, err
			}
			tokens, err := graft.Dep[*token.Manager](ctx)
			if err != nil {
				return nil, err
			}
			batcher, err := graft.Dep[*localstore.Batcher](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(checker, files, propagator, tokens, batcher, tel, log), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
