package localstore_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shelf/internal/adapters/localstore"
	"go.trai.ch/shelf/internal/core/domain"
)

func TestStore_SetGetRemove(t *testing.T) {
	s, err := localstore.NewStore(filepath.Join(t.TempDir(), "store.json"), 0)
	require.NoError(t, err)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("record:story:a", `{"id":"a"}`))
	v, ok, err := s.Get("record:story:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"a"}`, v)

	require.NoError(t, s.Remove("record:story:a"))
	_, ok, err = s.Get("record:story:a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove("record:story:a"), "removing a missing key is a no-op")
}

func TestStore_KeysSorted(t *testing.T) {
	s, err := localstore.NewStore(filepath.Join(t.TempDir(), "store.json"), 0)
	require.NoError(t, err)

	require.NoError(t, s.SetMany(map[string]string{"b": "2", "a": "1", "c": "3"}))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	first, err := localstore.NewStore(path, 0)
	require.NoError(t, err)
	require.NoError(t, first.Set("auth:github_token", "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.PrivateFilePerm), info.Mode().Perm())

	second, err := localstore.NewStore(path, 0)
	require.NoError(t, err)
	v, ok, err := second.Get("auth:github_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret", v)
	assert.Equal(t, len("auth:github_token")+len("secret"), second.Usage())
}

func TestStore_QuotaExceeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := localstore.NewStore(path, 10)
	require.NoError(t, err)

	require.NoError(t, s.Set("k", "12345")) // 6 bytes
	assert.Equal(t, 6, s.Usage())

	err = s.Set("x", "123456789")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageQuotaExceeded))

	_, ok, _ := s.Get("x")
	assert.False(t, ok, "rejected write must not be visible")
	assert.Equal(t, 6, s.Usage())

	// Replacing an existing value counts only the difference.
	require.NoError(t, s.Set("k", "123456789"))
	assert.Equal(t, 10, s.Usage())
}

func TestStore_SetManyIsAllOrNothing(t *testing.T) {
	s, err := localstore.NewStore(filepath.Join(t.TempDir(), "store.json"), 8)
	require.NoError(t, err)

	err = s.SetMany(map[string]string{"a": "111", "b": "222", "c": "333"})
	require.ErrorIs(t, err, domain.ErrStorageQuotaExceeded)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := localstore.NewStore(path, 0)
	require.Error(t, err)
}

func TestStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s, err := localstore.NewStore(path, 0)
	require.NoError(t, err)
	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_AccessDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	s, err := localstore.NewStore(filepath.Join(dir, "store.json"), 0)
	require.NoError(t, err)

	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o750) })

	err = s.Set("k", "v")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageAccessDenied))

	_, ok, _ := s.Get("k")
	assert.False(t, ok)
}
