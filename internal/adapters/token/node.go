package token

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shelf/internal/adapters/config"
	"go.trai.ch/shelf/internal/adapters/localstore"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
)

// NodeID is the unique identifier for the token manager Graft node.
const NodeID graft.ID = "adapter.token"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, localstore.NodeID},
		Run: func(ctx context.Context) (*Manager, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.LocalStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(store, cfg.Token), nil
		},
	})
}
