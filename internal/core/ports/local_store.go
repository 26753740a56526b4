package ports

// LocalStore is the persistent local key-value store.
// All operations are synchronous and may fail with domain.ErrStorageQuotaExceeded
// or domain.ErrStorageAccessDenied.
//
//go:generate go run go.uber.org/mock/mockgen -source=local_store.go -destination=mocks/mock_local_store.go -package=mocks
type LocalStore interface {
	// Keys returns all keys currently stored, in sorted order.
	Keys() ([]string, error)

	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key.
	Set(key, value string) error

	// SetMany stores all items in a single write. Either every item is stored or none is.
	SetMany(items map[string]string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}
