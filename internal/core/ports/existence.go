package ports

import "context"

// ExistenceChecker answers whether a path exists in the remote content store.
//
//go:generate go run go.uber.org/mock/mockgen -source=existence.go -destination=mocks/mock_existence.go -package=mocks
type ExistenceChecker interface {
	// Exists reports whether path exists. It never fails; any failure reads as false.
	Exists(ctx context.Context, path string) bool

	// Lookup is Exists with the failure kept: (false, nil) is a confirmed absence,
	// (false, err) a probe that could not answer.
	Lookup(ctx context.Context, path string) (bool, error)

	// MarkAsNonExistent records path as absent without consulting the remote store.
	MarkAsNonExistent(path string)

	// MarkAsExistent records path as present without consulting the remote store.
	MarkAsExistent(path string)
}

// OverrideStore persists manual existence marks across runs.
type OverrideStore interface {
	// Load returns every persisted mark keyed by path. true marks the path present.
	Load() map[string]bool

	// Save persists a mark for path and reports whether it was written.
	Save(path string, exists bool) bool

	// Clear removes every persisted mark.
	Clear()
}
