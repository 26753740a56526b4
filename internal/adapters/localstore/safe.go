package localstore

import (
	"go.trai.ch/shelf/internal/core/ports"
)

// Safe wraps a LocalStore with a boolean-failure API.
// Failures are logged and reported as false, never returned.
type Safe struct {
	store ports.LocalStore
	log   ports.Logger
}

// NewSafe returns a Safe wrapper around store.
func NewSafe(store ports.LocalStore, log ports.Logger) *Safe {
	return &Safe{store: store, log: log}
}

// GetItem returns the value for key. A failing read reports the key as absent.
func (s *Safe) GetItem(key string) (string, bool) {
	v, ok, err := s.store.Get(key)
	if err != nil {
		s.log.Warn("local store read failed", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

// SetItem stores value under key and reports whether the write succeeded.
func (s *Safe) SetItem(key, value string) bool {
	if err := s.store.Set(key, value); err != nil {
		s.log.Warn("local store write failed", "key", key, "error", err)
		return false
	}
	return true
}

// SetItems stores all items in one write and reports whether it succeeded.
func (s *Safe) SetItems(items map[string]string) bool {
	if err := s.store.SetMany(items); err != nil {
		s.log.Warn("local store write failed", "items", len(items), "error", err)
		return false
	}
	return true
}

// RemoveItem deletes key and reports whether the removal succeeded.
func (s *Safe) RemoveItem(key string) bool {
	if err := s.store.Remove(key); err != nil {
		s.log.Warn("local store remove failed", "key", key, "error", err)
		return false
	}
	return true
}
