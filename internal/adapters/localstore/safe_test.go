package localstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/shelf/internal/adapters/localstore"
	"go.trai.ch/shelf/internal/adapters/logger"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestSafe_ReportsFailuresAsFalse(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLocalStore(ctrl)
	safe := localstore.NewSafe(store, logger.Discard())

	store.EXPECT().Set("k", "v").Return(domain.ErrStorageQuotaExceeded)
	store.EXPECT().SetMany(map[string]string{"a": "1"}).Return(domain.ErrStorageAccessDenied)
	store.EXPECT().Get("k").Return("", false, domain.ErrStorageAccessDenied)
	store.EXPECT().Remove("k").Return(domain.ErrStorageAccessDenied)

	assert.False(t, safe.SetItem("k", "v"))
	assert.False(t, safe.SetItems(map[string]string{"a": "1"}))
	v, ok := safe.GetItem("k")
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.False(t, safe.RemoveItem("k"))
}

func TestSafe_PassesThroughSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLocalStore(ctrl)
	safe := localstore.NewSafe(store, logger.Discard())

	store.EXPECT().Set("k", "v").Return(nil)
	store.EXPECT().Get("k").Return("v", true, nil)
	store.EXPECT().Remove("k").Return(nil)

	assert.True(t, safe.SetItem("k", "v"))
	v, ok := safe.GetItem("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.True(t, safe.RemoveItem("k"))
}
