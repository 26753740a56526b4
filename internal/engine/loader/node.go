package loader

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shelf/internal/adapters/config"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/detector"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/logger"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/objectstore" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/source"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/adapters/telemetry"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
)

// NodeID is the unique identifier for the loader Graft node.
const NodeID graft.ID = "engine.loader"

func init() {
	graft.Register(graft.Node[*Loader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			detector.NodeID,
			logger.NodeID,
			objectstore.NodeID,
			source.RemoteNodeID,
			source.LocalNodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Loader, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			env, err := graft.Dep[domain.Environment](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			object, err := graft.Dep[*objectstore.Source](ctx)
			if err != nil {
				return nil, err
			}
			remote, err := graft.Dep[*source.Remote](ctx)
			if err != nil {
				return nil, err
			}
			local, err := graft.Dep[*source.Local](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				env,
				[]ports.Source{remote, local, object},
				log,
				WithTTL(cfg.Cache.FileListTTL),
				WithTelemetry(tel),
			), nil
		},
	})
}
