// Package token manages the credential used for remote content store access.
package token

import (
	"strings"

	"go.trai.ch/shelf/internal/core/ports"
)

// StorageKey is the local store key holding a user-provided token.
const StorageKey = "auth:github_token"

// Source describes where the active token comes from.
type Source string

const (
	// SourceStored means the token was saved in the local store.
	SourceStored Source = "stored"
	// SourceEnv means the token comes from the environment or config file.
	SourceEnv Source = "env"
	// SourceNone means no token is available.
	SourceNone Source = "none"
)

// Manager implements ports.TokenProvider.
// A stored token wins over the configured one. Blank tokens count as absent.
type Manager struct {
	store      ports.LocalStore
	configured string
}

// NewManager creates a Manager reading stored tokens from store
// and falling back to configured.
func NewManager(store ports.LocalStore, configured string) *Manager {
	return &Manager{
		store:      store,
		configured: strings.TrimSpace(configured),
	}
}

// CurrentToken returns the active token and whether one is available.
func (m *Manager) CurrentToken() (string, bool) {
	tok, _ := m.resolve()
	return tok, tok != ""
}

// Status reports where the active token comes from.
func (m *Manager) Status() Source {
	_, src := m.resolve()
	return src
}

// SetToken stores value in the local store. A blank value clears the stored token.
func (m *Manager) SetToken(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return m.ClearToken()
	}
	return m.store.Set(StorageKey, value)
}

// ClearToken removes the stored token. A configured token stays in effect.
func (m *Manager) ClearToken() error {
	return m.store.Remove(StorageKey)
}

func (m *Manager) resolve() (string, Source) {
	if stored, ok, err := m.store.Get(StorageKey); err == nil && ok {
		if stored = strings.TrimSpace(stored); stored != "" {
			return stored, SourceStored
		}
	}
	if m.configured != "" {
		return m.configured, SourceEnv
	}
	return "", SourceNone
}
