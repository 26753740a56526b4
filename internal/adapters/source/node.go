package source

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shelf/internal/adapters/config"
	"go.trai.ch/shelf/internal/adapters/github"
	"go.trai.ch/shelf/internal/adapters/localstore"
	"go.trai.ch/shelf/internal/adapters/logger"
	"go.trai.ch/shelf/internal/adapters/token"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/shelf/internal/engine/existence" //nolint:depguard // Remote source consults the existence cache
)

const (
	// RemoteNodeID is the unique identifier for the remote source Graft node.
	RemoteNodeID graft.ID = "adapter.remote_source"
	// LocalNodeID is the unique identifier for the local source Graft node.
	LocalNodeID graft.ID = "adapter.local_source"
)

func init() {
	graft.Register(graft.Node[*Remote]{
		ID:        RemoteNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			github.NodeID,
			token.NodeID,
			existence.NodeID,
			localstore.BatcherNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Remote, error) {
			store, err := graft.Dep[ports.ContentStore](ctx)
			if err != nil {
				return nil, err
			}
			tokens, err := graft.Dep[*token.Manager](ctx)
			if err != nil {
				return nil, err
			}
			checker, err := graft.Dep[*existence.Checker](ctx)
			if err != nil {
				return nil, err
			}
			batcher, err := graft.Dep[*localstore.Batcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewRemote(store, tokens, checker, batcher, log, cfg.Cache.MaxConcurrency), nil
		},
	})

	graft.Register(graft.Node[*Local]{
		ID:        LocalNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{localstore.NodeID, logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (*Local, error) {
			store, err := graft.Dep[ports.LocalStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewLocal(store, cfg.Local.Prefixes, log), nil
		},
	})
}
