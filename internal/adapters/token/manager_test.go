package token_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shelf/internal/adapters/localstore"
	"go.trai.ch/shelf/internal/adapters/token"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newStore(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.NewStore(filepath.Join(t.TempDir(), "store.json"), 0)
	require.NoError(t, err)
	return s
}

func TestManager_Precedence(t *testing.T) {
	store := newStore(t)
	m := token.NewManager(store, "from-env")

	tok, ok := m.CurrentToken()
	assert.True(t, ok)
	assert.Equal(t, "from-env", tok)
	assert.Equal(t, token.SourceEnv, m.Status())

	require.NoError(t, m.SetToken("  stored  "))
	tok, ok = m.CurrentToken()
	assert.True(t, ok)
	assert.Equal(t, "stored", tok)
	assert.Equal(t, token.SourceStored, m.Status())

	require.NoError(t, m.ClearToken())
	tok, _ = m.CurrentToken()
	assert.Equal(t, "from-env", tok)
}

func TestManager_BlankIsAbsent(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set(token.StorageKey, "   "))
	m := token.NewManager(store, " ")

	tok, ok := m.CurrentToken()
	assert.False(t, ok)
	assert.Empty(t, tok)
	assert.Equal(t, token.SourceNone, m.Status())
}

func TestManager_SetBlankClears(t *testing.T) {
	store := newStore(t)
	m := token.NewManager(store, "")

	require.NoError(t, m.SetToken("abc"))
	require.NoError(t, m.SetToken(""))

	_, ok := m.CurrentToken()
	assert.False(t, ok)
}

func TestManager_StoreFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLocalStore(ctrl)
	store.EXPECT().Get(token.StorageKey).Return("", false, domain.ErrStorageAccessDenied)

	m := token.NewManager(store, "from-env")
	tok, ok := m.CurrentToken()
	assert.True(t, ok)
	assert.Equal(t, "from-env", tok)
}
