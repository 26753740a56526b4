// Package ports defines the core interfaces for the application.
package ports

import "context"

// ContentStore is the remote repository-hosting API used as a key-value content store.
// Paths are relative to the configured content root.
//
//go:generate go run go.uber.org/mock/mockgen -source=content_store.go -destination=mocks/mock_content_store.go -package=mocks
type ContentStore interface {
	// Probe reports whether path exists without transferring its body.
	// A confirmed absence is (false, nil); any other failure is returned as an error.
	Probe(ctx context.Context, token, path string) (bool, error)

	// Read returns the raw content stored at path.
	// Returns domain.ErrNotFound if the path does not exist.
	Read(ctx context.Context, token, path string) ([]byte, error)

	// Delete removes the content stored at path.
	// Returns domain.ErrNotFound if the path does not exist.
	Delete(ctx context.Context, token, path string) error
}
