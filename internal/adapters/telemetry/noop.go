// Package telemetry provides telemetry adapters.
package telemetry

import (
	"context"

	"go.trai.ch/shelf/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry.
type NoOp struct{}

// NewNoOp creates a new NoOp.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns ctx unchanged and a vertex that ignores everything.
func (NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (NoOp) Close() error {
	return nil
}

type noopVertex struct{}

func (noopVertex) Complete(error) {}

func (noopVertex) Cached() {}
