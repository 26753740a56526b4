package loader_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shelf/internal/adapters/logger"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/shelf/internal/core/ports/mocks"
	"go.trai.ch/shelf/internal/engine/loader"
	"go.uber.org/mock/gomock"
)

type fakeSource struct {
	id      domain.SourceID
	records []domain.Record
	err     error
	gate    chan struct{}
	calls   atomic.Int32
}

func (s *fakeSource) ID() domain.SourceID { return s.id }

func (s *fakeSource) Load(_ context.Context, _ string) ([]domain.Record, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	return s.records, s.err
}

func rec(id string, src domain.Provenance) domain.Record {
	return domain.Record{ID: id, Title: "t-" + id, Source: src}
}

func ids(records []domain.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestLoader_PartialFailureKeepsSurvivors(t *testing.T) {
	remote := &fakeSource{id: domain.SourceRemote, err: domain.ErrSourceFailed}
	local := &fakeSource{id: domain.SourceLocal, records: []domain.Record{
		rec("1", domain.ProvenanceLocal),
		rec("2", domain.ProvenanceLocal),
		rec("3", domain.ProvenanceLocal),
	}}

	l := loader.New(domain.EnvironmentProduction, []ports.Source{remote, local}, logger.Discard(),
		loader.WithClock(clockwork.NewFakeClock()))

	got := l.LoadFileList(t.Context(), "story")
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))

	stats := l.Stats()
	// Production also lists the object source, which is not registered here.
	assert.Equal(t, uint64(2), stats.SourceErrors)
}

func TestLoader_DedupeFollowsEnvironmentPriority(t *testing.T) {
	tests := []struct {
		name string
		env  domain.Environment
		want domain.Provenance
	}{
		{name: "production prefers remote", env: domain.EnvironmentProduction, want: domain.ProvenanceRemote},
		{name: "development prefers local", env: domain.EnvironmentDevelopment, want: domain.ProvenanceLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeSource{id: domain.SourceRemote, records: []domain.Record{rec("a", domain.ProvenanceRemote)}}
			local := &fakeSource{id: domain.SourceLocal, records: []domain.Record{
				rec("a", domain.ProvenanceLocal),
				rec("b", domain.ProvenanceLocal),
			}}
			object := &fakeSource{id: domain.SourceObject}

			l := loader.New(tt.env, []ports.Source{remote, local, object}, logger.Discard())

			got := l.LoadFileList(t.Context(), "story")
			require.Len(t, got, 2)
			assert.Equal(t, "a", got[0].ID)
			assert.Equal(t, tt.want, got[0].Source)
		})
	}
}

func TestLoader_FilesystemSkipsRemote(t *testing.T) {
	remote := &fakeSource{id: domain.SourceRemote, records: []domain.Record{rec("r", domain.ProvenanceRemote)}}
	local := &fakeSource{id: domain.SourceLocal, records: []domain.Record{rec("l", domain.ProvenanceLocal)}}
	object := &fakeSource{id: domain.SourceObject, records: []domain.Record{rec("o", domain.ProvenanceFallback)}}

	l := loader.New(domain.EnvironmentFilesystem, []ports.Source{remote, local, object}, logger.Discard())

	assert.Equal(t, []string{"l", "o"}, ids(l.LoadFileList(t.Context(), "story")))
	assert.Equal(t, int32(0), remote.calls.Load())
}

func TestLoader_CachesWithinTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := clockwork.NewFakeClock()

	local := mocks.NewMockSource(ctrl)
	local.EXPECT().ID().Return(domain.SourceLocal).AnyTimes()
	gomock.InOrder(
		local.EXPECT().Load(gomock.Any(), "story").Return([]domain.Record{rec("1", domain.ProvenanceLocal)}, nil),
		local.EXPECT().Load(gomock.Any(), "story").Return([]domain.Record{
			rec("1", domain.ProvenanceLocal),
			rec("2", domain.ProvenanceLocal),
		}, nil),
	)

	l := loader.New(domain.EnvironmentFilesystem, []ports.Source{local}, logger.Discard(), loader.WithClock(clock))

	assert.Len(t, l.LoadFileList(t.Context(), "story"), 1)

	clock.Advance(domain.DefaultFileListTTL)
	assert.Len(t, l.LoadFileList(t.Context(), "story"), 1, "served from cache")

	clock.Advance(time.Millisecond)
	assert.Len(t, l.LoadFileList(t.Context(), "story"), 2, "reloaded after the TTL")

	stats := l.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
}

func TestLoader_CallerCannotMutateCache(t *testing.T) {
	local := &fakeSource{id: domain.SourceLocal, records: []domain.Record{rec("1", domain.ProvenanceLocal)}}
	l := loader.New(domain.EnvironmentFilesystem, []ports.Source{local}, logger.Discard())

	first := l.LoadFileList(t.Context(), "story")
	first[0].ID = "changed"

	assert.Equal(t, "1", l.LoadFileList(t.Context(), "story")[0].ID)
}

func TestLoader_CoalescesConcurrentLoads(t *testing.T) {
	gate := make(chan struct{})
	remote := &fakeSource{id: domain.SourceRemote, gate: gate, records: []domain.Record{rec("r", domain.ProvenanceRemote)}}
	local := &fakeSource{id: domain.SourceLocal, gate: gate, records: []domain.Record{rec("l", domain.ProvenanceLocal)}}

	l := loader.New(domain.EnvironmentUnknown, []ports.Source{remote, local}, logger.Discard())

	const callers = 10
	results := make([][]domain.Record, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := range callers {
		go func() {
			defer wg.Done()
			results[i] = l.LoadFileList(t.Context(), "story")
		}()
	}

	require.Eventually(t, func() bool {
		return remote.calls.Load() == 1 && local.calls.Load() == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, l.Stats().Pending)
	close(gate)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, []string{"r", "l"}, ids(r))
	}
	assert.Equal(t, int32(1), remote.calls.Load())
	assert.Equal(t, int32(1), local.calls.Load())
	assert.Equal(t, 0, l.Stats().Pending)
}

func TestLoader_AllSourcesFailing(t *testing.T) {
	remote := &fakeSource{id: domain.SourceRemote, err: domain.ErrSourceUnavailable}
	local := &fakeSource{id: domain.SourceLocal, err: errors.New("disk gone")}

	l := loader.New(domain.EnvironmentUnknown, []ports.Source{remote, local}, logger.Discard())

	got := l.LoadFileList(t.Context(), "story")
	assert.Empty(t, got)
	assert.Equal(t, uint64(2), l.Stats().SourceErrors)
}

func TestLoader_EmptyCategory(t *testing.T) {
	local := &fakeSource{id: domain.SourceLocal}
	l := loader.New(domain.EnvironmentFilesystem, []ports.Source{local}, logger.Discard())

	assert.Nil(t, l.LoadFileList(t.Context(), "  "))
	assert.Equal(t, int32(0), local.calls.Load())
}

func TestLoader_InvalidateAndClear(t *testing.T) {
	local := &fakeSource{id: domain.SourceLocal, records: []domain.Record{rec("1", domain.ProvenanceLocal)}}
	l := loader.New(domain.EnvironmentFilesystem, []ports.Source{local}, logger.Discard())
	ctx := t.Context()

	l.LoadFileList(ctx, "story")
	l.LoadFileList(ctx, "essay")
	assert.Equal(t, 2, l.Stats().CachedCategories)
	assert.Equal(t, int32(2), local.calls.Load())

	l.Invalidate("story")
	assert.Equal(t, 1, l.Stats().CachedCategories)
	l.LoadFileList(ctx, "story")
	l.LoadFileList(ctx, "essay")
	assert.Equal(t, int32(3), local.calls.Load())

	l.ClearCache()
	assert.Equal(t, 0, l.Stats().CachedCategories)
	l.LoadFileList(ctx, "essay")
	assert.Equal(t, int32(4), local.calls.Load())
}

func TestLoader_InvalidateDuringLoadDropsResult(t *testing.T) {
	gate := make(chan struct{})
	local := &fakeSource{id: domain.SourceLocal, gate: gate, records: []domain.Record{rec("1", domain.ProvenanceLocal)}}
	l := loader.New(domain.EnvironmentFilesystem, []ports.Source{local}, logger.Discard())

	done := make(chan []domain.Record)
	go func() { done <- l.LoadFileList(t.Context(), "story") }()

	require.Eventually(t, func() bool { return local.calls.Load() == 1 }, time.Second, time.Millisecond)
	l.Invalidate("story")
	close(gate)

	assert.Len(t, <-done, 1)
	assert.Equal(t, 0, l.Stats().CachedCategories)
}

func TestLoader_TelemetryMarksCacheHits(t *testing.T) {
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	loadVertex := mocks.NewMockVertex(ctrl)
	sourceVertex := mocks.NewMockVertex(ctrl)
	hitVertex := mocks.NewMockVertex(ctrl)

	gomock.InOrder(
		tel.EXPECT().Record(gomock.Any(), "load story").DoAndReturn(
			func(ctx context.Context, _ string) (context.Context, ports.Vertex) { return ctx, loadVertex }),
		tel.EXPECT().Record(gomock.Any(), "load story").DoAndReturn(
			func(ctx context.Context, _ string) (context.Context, ports.Vertex) { return ctx, hitVertex }),
	)
	tel.EXPECT().Record(gomock.Any(), "source local story").DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) { return ctx, sourceVertex })

	sourceVertex.EXPECT().Complete(nil)
	loadVertex.EXPECT().Complete(nil)
	hitVertex.EXPECT().Cached()
	hitVertex.EXPECT().Complete(nil)

	local := &fakeSource{id: domain.SourceLocal}
	l := loader.New(domain.EnvironmentFilesystem, []ports.Source{local}, logger.Discard(), loader.WithTelemetry(tel))

	l.LoadFileList(t.Context(), "story")
	l.LoadFileList(t.Context(), "story")
}
