package ports

import "context"

// Telemetry records units of work for progress reporting.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// Record starts a new vertex named name.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and releases the recording session.
	Close() error
}

// Vertex is a single unit of recorded work.
type Vertex interface {
	// Complete marks the vertex as finished (successfully or with an error).
	Complete(err error)
	// Cached marks the vertex as served from a cache.
	Cached()
}
