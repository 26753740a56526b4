package detector

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shelf/internal/adapters/config"
	"go.trai.ch/shelf/internal/core/domain"
)

// NodeID is the unique identifier for the environment Graft node.
const NodeID graft.ID = "adapter.environment"

func init() {
	graft.Register(graft.Node[domain.Environment]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (domain.Environment, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return "", err
			}
			return Resolve(cfg.Environment, cfg.SiteURL), nil
		},
	})
}
