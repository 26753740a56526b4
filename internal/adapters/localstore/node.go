package localstore

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/shelf/internal/adapters/config"
	"go.trai.ch/shelf/internal/adapters/logger"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the local store Graft node.
	NodeID graft.ID = "adapter.local_store"
	// BatcherNodeID is the unique identifier for the local store write batcher Graft node.
	BatcherNodeID graft.ID = "adapter.local_store_batcher"
)

func init() {
	graft.Register(graft.Node[ports.LocalStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.LocalStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := NewStore(cfg.Local.Path, cfg.Local.QuotaBytes)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})

	graft.Register(graft.Node[*Batcher]{
		ID:        BatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID, logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (*Batcher, error) {
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

			safe := NewSafe(store, log)
			return NewBatcher(clockwork.NewRealClock(), cfg.Local.BatchSize, cfg.Local.FlushInterval, func(items map[string]string) {
				safe.SetItems(items)
			}), nil
		},
	})
}
