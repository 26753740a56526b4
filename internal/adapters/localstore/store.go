// Package localstore implements the persistent local key-value store.
package localstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.LocalStore using a flat JSON file.
// Capacity is bounded by quota, counted as the sum of key and value lengths.
type Store struct {
	path  string
	quota int

	mu    sync.RWMutex
	items map[string]string
	used  int
}

// NewStore opens the store backed by the file at path. A missing file is an empty store.
// A quota of zero or less disables the capacity check.
func NewStore(path string, quota int) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		quota: quota,
		items: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return storageErr(err, "failed to read local store")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.items); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal local store"), "path", s.path)
	}

	for k, v := range s.items {
		s.used += entrySize(k, v)
	}
	return nil
}

// Keys returns all stored keys in sorted order.
func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	return v, ok, nil
}

// Set stores value under key and persists the store.
func (s *Store) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

// SetMany stores all items and persists the store once.
// Nothing is stored when the quota would be exceeded or the write fails.
func (s *Store) SetMany(items map[string]string) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used
	for k, v := range items {
		if old, ok := s.items[k]; ok {
			used -= entrySize(k, old)
		}
		used += entrySize(k, v)
	}
	if s.quota > 0 && used > s.quota {
		err := zerr.With(zerr.Wrap(domain.ErrStorageQuotaExceeded, "write rejected"), "quota_bytes", s.quota)
		return zerr.With(err, "required_bytes", used)
	}

	previous := make(map[string]*string, len(items))
	for k, v := range items {
		if old, ok := s.items[k]; ok {
			previous[k] = &old
		} else {
			previous[k] = nil
		}
		s.items[k] = v
	}

	if err := s.saveLocked(); err != nil {
		for k, old := range previous {
			if old == nil {
				delete(s.items, k)
			} else {
				s.items[k] = *old
			}
		}
		return err
	}

	s.used = used
	return nil
}

// Remove deletes key and persists the store. Removing a missing key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.items[key]
	if !ok {
		return nil
	}
	delete(s.items, key)

	if err := s.saveLocked(); err != nil {
		s.items[key] = old
		return err
	}

	s.used -= entrySize(key, old)
	return nil
}

// Usage returns the number of bytes currently counted against the quota.
func (s *Store) Usage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

// saveLocked must be called with mu held.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal local store")
	}
	if err := atomicWriteFile(s.path, data); err != nil {
		return storageErr(err, "failed to write local store")
	}
	return nil
}

func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "store-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.PrivateFilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// storageErr maps permission failures to ErrStorageAccessDenied.
func storageErr(err error, msg string) error {
	if errors.Is(err, fs.ErrPermission) {
		return zerr.With(zerr.Wrap(domain.ErrStorageAccessDenied, err.Error()), "operation", msg)
	}
	return zerr.Wrap(err, msg)
}

func entrySize(key, value string) int {
	return len(key) + len(value)
}
