package deletion_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shelf/internal/adapters/logger"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports/mocks"
	"go.trai.ch/shelf/internal/engine/deletion"
	"go.uber.org/mock/gomock"
)

type invalidations struct {
	categories []string
}

func (i *invalidations) Invalidate(category string) {
	i.categories = append(i.categories, category)
}

type dropped struct {
	keys []string
}

func (d *dropped) Drop(key string) {
	d.keys = append(d.keys, key)
}

type fixture struct {
	store     *mocks.MockContentStore
	tokens    *mocks.MockTokenProvider
	local     *mocks.MockLocalStore
	existence *mocks.MockExistenceChecker
	lists     *invalidations
	pending   *dropped
	clock     *clockwork.FakeClock
	events    []domain.DeletionEvent
	p         *deletion.Propagator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		store:     mocks.NewMockContentStore(ctrl),
		tokens:    mocks.NewMockTokenProvider(ctrl),
		local:     mocks.NewMockLocalStore(ctrl),
		existence: mocks.NewMockExistenceChecker(ctrl),
		lists:     &invalidations{},
		pending:   &dropped{},
		clock:     clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.p = deletion.New(f.store, f.tokens, f.local, f.existence, f.lists, logger.Discard(),
		deletion.WithClock(f.clock), deletion.WithPendingWrites(f.pending))
	f.p.Subscribe(func(e domain.DeletionEvent) { f.events = append(f.events, e) })
	return f
}

func TestDelete_PropagatesEverywhere(t *testing.T) {
	f := newFixture(t)

	f.tokens.EXPECT().CurrentToken().Return("tok", true)
	f.store.EXPECT().Delete(gomock.Any(), "tok", "story/42.json").Return(nil)
	f.local.EXPECT().Remove("record:story:42").Return(nil)
	f.existence.EXPECT().MarkAsNonExistent("story/42.json")

	require.NoError(t, f.p.Delete(t.Context(), "story", "42"))

	assert.Equal(t, []string{"story"}, f.lists.categories)
	assert.Equal(t, []string{"record:story:42"}, f.pending.keys)
	require.Len(t, f.events, 1)
	assert.Equal(t, domain.DeletionEvent{
		Category: "story",
		ID:       "42",
		Path:     "story/42.json",
		At:       f.clock.Now(),
	}, f.events[0])
}

func TestDelete_RemoteNotFoundIsSuccess(t *testing.T) {
	f := newFixture(t)

	f.tokens.EXPECT().CurrentToken().Return("tok", true)
	f.store.EXPECT().Delete(gomock.Any(), "tok", "essay/a.json").Return(domain.ErrNotFound)
	f.local.EXPECT().Remove("record:essay:a").Return(nil)
	f.existence.EXPECT().MarkAsNonExistent("essay/a.json")

	require.NoError(t, f.p.Delete(t.Context(), "essay", "a"))
	require.Len(t, f.events, 1)
	assert.NoError(t, f.events[0].RemoteErr)
}

func TestDelete_RemoteFailureStillCleansUpLocally(t *testing.T) {
	f := newFixture(t)

	f.tokens.EXPECT().CurrentToken().Return("tok", true)
	f.store.EXPECT().Delete(gomock.Any(), "tok", "story/42.json").Return(domain.ErrDeleteFailed)
	f.local.EXPECT().Remove("record:story:42").Return(nil)
	// The remote file may still be there, so the existence cache is left alone.

	err := f.p.Delete(t.Context(), "story", "42")
	require.ErrorIs(t, err, domain.ErrDeleteFailed)

	assert.Equal(t, []string{"story"}, f.lists.categories)
	require.Len(t, f.events, 1)
	require.ErrorIs(t, f.events[0].RemoteErr, domain.ErrDeleteFailed)
}

func TestDelete_NoCredential(t *testing.T) {
	f := newFixture(t)

	f.tokens.EXPECT().CurrentToken().Return("", false)
	f.local.EXPECT().Remove("record:story:42").Return(nil)

	err := f.p.Delete(t.Context(), "story", "42")
	require.ErrorIs(t, err, domain.ErrNoCredential)
	assert.Equal(t, []string{"story"}, f.lists.categories)
}

func TestDelete_LocalFailureIsReported(t *testing.T) {
	f := newFixture(t)

	f.tokens.EXPECT().CurrentToken().Return("tok", true)
	f.store.EXPECT().Delete(gomock.Any(), "tok", "story/42.json").Return(nil)
	f.local.EXPECT().Remove("record:story:42").Return(domain.ErrStorageAccessDenied)
	f.existence.EXPECT().MarkAsNonExistent("story/42.json")

	err := f.p.Delete(t.Context(), "story", "42")
	require.ErrorIs(t, err, domain.ErrStorageAccessDenied)
	require.Len(t, f.events, 1)
	assert.NoError(t, f.events[0].RemoteErr)
}

func TestDelete_InvalidReference(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ category, id string }{
		{"", "1"},
		{"story", ""},
		{"story", "../x"},
		{"a/b", "1"},
	} {
		err := f.p.Delete(t.Context(), tc.category, tc.id)
		require.ErrorIs(t, err, domain.ErrInvalidPath)
	}
	assert.Empty(t, f.events)
	assert.Empty(t, f.lists.categories)
}

func TestSubscribe_InRegistrationOrder(t *testing.T) {
	f := newFixture(t)

	var order []string
	f.p.Subscribe(func(domain.DeletionEvent) { order = append(order, "second") })
	f.p.Subscribe(func(domain.DeletionEvent) { order = append(order, "third") })

	f.tokens.EXPECT().CurrentToken().Return("tok", true)
	f.store.EXPECT().Delete(gomock.Any(), "tok", "story/1.json").Return(errors.New("boom"))
	f.local.EXPECT().Remove("record:story:1").Return(nil)

	require.Error(t, f.p.Delete(t.Context(), "story", "1"))
	assert.Len(t, f.events, 1)
	assert.Equal(t, []string{"second", "third"}, order)
}
