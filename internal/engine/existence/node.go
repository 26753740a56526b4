package existence

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shelf/internal/adapters/config"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/github"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/localstore" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/logger"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/token"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
)

// NodeID is the unique identifier for the existence checker Graft node.
const NodeID graft.ID = "engine.existence"

func init() {
	graft.Register(graft.Node[*Checker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			github.NodeID,
			token.NodeID,
			localstore.NodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Checker, error) {
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
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			return NewChecker(
				NewProber(store, tokens),
				log,
				WithTTL(cfg.Cache.ExistenceTTL),
				WithEvictionThreshold(cfg.Cache.EvictionThreshold),
				WithConcurrency(cfg.Cache.MaxConcurrency),
				WithOverrides(localstore.NewOverrides(local, log)),
			), nil
		},
	})
}
