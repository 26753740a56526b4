// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/shelf/internal/adapters/config"
	_ "go.trai.ch/shelf/internal/adapters/detector"
	_ "go.trai.ch/shelf/internal/adapters/github"
	_ "go.trai.ch/shelf/internal/adapters/localstore"
	_ "go.trai.ch/shelf/internal/adapters/logger"
	_ "go.trai.ch/shelf/internal/adapters/objectstore"
	_ "go.trai.ch/shelf/internal/adapters/source"
	_ "go.trai.ch/shelf/internal/adapters/telemetry"
	_ "go.trai.ch/shelf/internal/adapters/token"
	// Register app and engine nodes.
	_ "go.trai.ch/shelf/internal/app"
	_ "go.trai.ch/shelf/internal/engine/deletion"
	_ "go.trai.ch/shelf/internal/engine/existence"
	_ "go.trai.ch/shelf/internal/engine/loader"
)
