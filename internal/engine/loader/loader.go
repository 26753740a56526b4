// Package loader implements the multi-source record aggregator.
package loader

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type listing struct {
	records  []domain.Record
	cachedAt time.Time
}

// Loader merges the records of a category from every source registered for the environment.
//
// Sources are queried concurrently and merged in priority order, so earlier sources
// win identity ties. A failing source is logged and skipped. Results are cached per
// category for the file-list TTL and concurrent loads of one category share a query.
type Loader struct {
	sources   map[domain.SourceID]ports.Source
	env       domain.Environment
	log       ports.Logger
	telemetry ports.Telemetry
	clock     clockwork.Clock
	ttl       time.Duration

	mu    sync.Mutex
	lists map[string]listing
	// Generations change on invalidation so in-flight loads do not repopulate stale lists.
	generation  uint64
	generations map[string]uint64

	group   singleflight.Group
	pending atomic.Int64

	hits         atomic.Uint64
	misses       atomic.Uint64
	sourceErrors atomic.Uint64
}

// Option configures a Loader.
type Option func(*Loader)

// WithClock sets the clock used for the file-list TTL.
func WithClock(clock clockwork.Clock) Option {
	return func(l *Loader) { l.clock = clock }
}

// WithTTL sets how long a loaded file list stays fresh.
func WithTTL(ttl time.Duration) Option {
	return func(l *Loader) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithTelemetry sets the telemetry recorder.
func WithTelemetry(t ports.Telemetry) Option {
	return func(l *Loader) { l.telemetry = t }
}

// New creates a Loader for env over the given sources.
func New(env domain.Environment, sources []ports.Source, log ports.Logger, opts ...Option) *Loader {
	l := &Loader{
		sources:     make(map[domain.SourceID]ports.Source, len(sources)),
		env:         env,
		log:         log,
		clock:       clockwork.NewRealClock(),
		ttl:         domain.DefaultFileListTTL,
		lists:       make(map[string]listing),
		generations: make(map[string]uint64),
	}
	for _, s := range sources {
		l.sources[s.ID()] = s
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.telemetry == nil {
		l.telemetry = noTelemetry{}
	}
	return l
}

// Environment returns the environment the source order is resolved for.
func (l *Loader) Environment() domain.Environment {
	return l.env
}

// LoadFileList returns the deduplicated records of category. It never fails:
// when every source fails the result is empty and the failures are logged.
func (l *Loader) LoadFileList(ctx context.Context, category string) []domain.Record {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}

	ctx, vertex := l.telemetry.Record(ctx, "load "+category)

	if records, ok := l.cached(category); ok {
		l.hits.Add(1)
		vertex.Cached()
		vertex.Complete(nil)
		return records
	}
	l.misses.Add(1)

	v, _, _ := l.group.Do(category, func() (any, error) {
		if records, ok := l.cached(category); ok {
			return records, nil
		}

		l.mu.Lock()
		gen := l.generationLocked(category)
		l.mu.Unlock()

		l.pending.Add(1)
		defer l.pending.Add(-1)

		records := l.load(context.WithoutCancel(ctx), category)

		l.mu.Lock()
		if l.generationLocked(category) == gen {
			l.lists[category] = listing{records: records, cachedAt: l.clock.Now()}
		}
		l.mu.Unlock()
		return records, nil
	})
	vertex.Complete(nil)

	return slices.Clone(v.([]domain.Record))
}

type sourceResult struct {
	id      domain.SourceID
	records []domain.Record
	err     error
}

// load queries every source of the priority order and merges successes in that order.
func (l *Loader) load(ctx context.Context, category string) []domain.Record {
	order := domain.PriorityFor(l.env)
	results := make([]sourceResult, len(order))

	var g errgroup.Group
	for i, id := range order {
		results[i].id = id
		src, ok := l.sources[id]
		if !ok {
			results[i].err = zerr.With(zerr.Wrap(domain.ErrSourceUnavailable, "source not registered"), "source", string(id))
			continue
		}
		g.Go(func() error {
			sctx, vertex := l.telemetry.Record(ctx, "source "+string(id)+" "+category)
			records, err := src.Load(sctx, category)
			vertex.Complete(err)
			results[i].records = records
			results[i].err = err
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.Record
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			l.sourceErrors.Add(1)
			l.log.Warn("source failed, skipping", "source", string(r.id), "category", category, "error", r.err)
			continue
		}
		merged = append(merged, r.records...)
	}

	if failed == len(results) && failed > 0 {
		l.log.Warn("every source failed", "category", category, "sources", failed)
	}

	records := domain.Dedupe(merged)
	l.log.Debug("category loaded", "category", category, "records", len(records), "failed_sources", failed)
	return records
}

// Invalidate drops the cached list of category.
func (l *Loader) Invalidate(category string) {
	category = strings.TrimSpace(category)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.generations[category]++
	delete(l.lists, category)
}

// ClearCache drops every cached list.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	clear(l.lists)
}

// generationLocked must be called with mu held.
func (l *Loader) generationLocked(category string) uint64 {
	return l.generation + l.generations[category]
}

// Stats returns diagnostic counters.
func (l *Loader) Stats() domain.LoaderStats {
	l.mu.Lock()
	cached := len(l.lists)
	l.mu.Unlock()

	return domain.LoaderStats{
		CachedCategories: cached,
		Pending:          int(l.pending.Load()),
		Hits:             l.hits.Load(),
		Misses:           l.misses.Load(),
		SourceErrors:     l.sourceErrors.Load(),
	}
}

// cached returns a copy of the fresh list for category, evicting it when expired.
func (l *Loader) cached(category string) ([]domain.Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.lists[category]
	if !ok {
		return nil, false
	}
	if l.clock.Since(entry.cachedAt) > l.ttl {
		delete(l.lists, category)
		return nil, false
	}
	return slices.Clone(entry.records), true
}

type noTelemetry struct{}

func (noTelemetry) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noVertex{}
}

func (noTelemetry) Close() error { return nil }

type noVertex struct{}

func (noVertex) Complete(error) {}
func (noVertex) Cached()        {}
