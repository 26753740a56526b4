// Package existence implements the cached, coalescing remote existence checker.
package existence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	exists     bool
	recordedAt time.Time
}

// Checker answers whether remote paths exist.
//
// Confirmed absences are kept in a known-absent set that only MarkAsExistent
// or ClearCache undo. Manual marks are persisted when an override store is set. Other answers live in a TTL cache. Concurrent lookups of
// the same uncached path share one probe. Failed probes are never cached.
type Checker struct {
	prober      *Prober
	overrides   ports.OverrideStore
	log         ports.Logger
	clock       clockwork.Clock
	ttl         time.Duration
	threshold   int
	concurrency int

	mu      sync.Mutex
	entries map[string]entry
	absent  map[string]struct{}
	// epoch and epochs only grow. A probe records its answer only when the
	// path's combined epoch is unchanged since the probe started.
	epoch  uint64
	epochs map[string]uint64

	group   singleflight.Group
	pending atomic.Int64

	hits        atomic.Uint64
	misses      atomic.Uint64
	probes      atomic.Uint64
	probeErrors atomic.Uint64
}

// Option configures a Checker.
type Option func(*Checker)

// WithClock sets the clock used for TTL bookkeeping.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Checker) { c.clock = clock }
}

// WithTTL sets how long a cached answer stays fresh.
func WithTTL(ttl time.Duration) Option {
	return func(c *Checker) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithEvictionThreshold sets the cache size above which writes sweep expired entries.
func WithEvictionThreshold(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithConcurrency bounds the number of parallel lookups in CheckMultiple.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithOverrides persists manual marks in store and restores them on creation.
func WithOverrides(store ports.OverrideStore) Option {
	return func(c *Checker) { c.overrides = store }
}

// NewChecker creates a Checker probing through prober.
func NewChecker(prober *Prober, log ports.Logger, opts ...Option) *Checker {
	c := &Checker{
		prober:      prober,
		log:         log,
		clock:       clockwork.NewRealClock(),
		ttl:         domain.DefaultExistenceTTL,
		threshold:   domain.DefaultEvictionThreshold,
		concurrency: domain.DefaultMaxConcurrency,
		entries:     make(map[string]entry),
		absent:      make(map[string]struct{}),
		epochs:      make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.restore()
	return c
}

// restore applies the persisted manual marks.
func (c *Checker) restore() {
	if c.overrides == nil {
		return
	}
	marks := c.overrides.Load()

	c.mu.Lock()
	defer c.mu.Unlock()
	for path, exists := range marks {
		key, err := domain.CleanPath(path)
		if err != nil {
			c.log.Warn("ignoring invalid persisted mark", "path", path)
			continue
		}
		c.recordLocked(key, exists)
	}
}

// Exists reports whether path exists remotely. Any failure reads as false.
func (c *Checker) Exists(ctx context.Context, path string) bool {
	exists, err := c.Lookup(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrNoCredential) {
			c.log.Debug("existence check skipped, no credential", "path", path)
		} else {
			c.log.Warn("existence check failed", "path", path, "error", err)
		}
		return false
	}
	return exists
}

// Lookup is Exists with the failure kept: (false, nil) is a confirmed absence,
// (false, err) a probe that could not answer.
func (c *Checker) Lookup(ctx context.Context, path string) (bool, error) {
	key, err := domain.CleanPath(path)
	if err != nil {
		return false, err
	}

	if exists, ok := c.cached(key); ok {
		c.hits.Add(1)
		return exists, nil
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A flight that just finished may have filled the cache.
		if exists, ok := c.cached(key); ok {
			return exists, nil
		}

		c.mu.Lock()
		epoch := c.epochLocked(key)
		c.mu.Unlock()

		c.pending.Add(1)
		defer c.pending.Add(-1)

		c.probes.Add(1)
		exists, err := c.prober.Probe(context.WithoutCancel(ctx), key)
		if err != nil {
			c.probeErrors.Add(1)
			return false, err
		}

		c.mu.Lock()
		if c.epochLocked(key) == epoch {
			c.recordLocked(key, exists)
		}
		c.mu.Unlock()
		return exists, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// CheckMultiple looks up every path concurrently.
func (c *Checker) CheckMultiple(ctx context.Context, paths []string) map[string]bool {
	results := make(map[string]bool, len(paths))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, p := range paths {
		g.Go(func() error {
			exists := c.Exists(ctx, p)
			mu.Lock()
			results[p] = exists
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// MarkAsNonExistent records path as absent without probing.
func (c *Checker) MarkAsNonExistent(path string) {
	key, err := domain.CleanPath(path)
	if err != nil {
		c.log.Warn("ignoring invalid path", "path", path)
		return
	}

	c.mark(key, false)
}

// MarkAsExistent records path as present without probing and lifts a known absence.
func (c *Checker) MarkAsExistent(path string) {
	key, err := domain.CleanPath(path)
	if err != nil {
		c.log.Warn("ignoring invalid path", "path", path)
		return
	}

	c.mark(key, true)
}

func (c *Checker) mark(key string, exists bool) {
	c.mu.Lock()
	c.epochs[key]++
	c.recordLocked(key, exists)
	c.mu.Unlock()

	if c.overrides != nil && !c.overrides.Save(key, exists) {
		c.log.Warn("manual mark not persisted", "path", key)
	}
}

// ClearCache drops every cached answer, known absence and persisted mark.
func (c *Checker) ClearCache() {
	c.mu.Lock()
	c.epoch++
	clear(c.entries)
	clear(c.absent)
	c.mu.Unlock()

	if c.overrides != nil {
		c.overrides.Clear()
	}
}

// Stats returns diagnostic counters.
func (c *Checker) Stats() domain.ExistenceStats {
	c.mu.Lock()
	size, absent := len(c.entries), len(c.absent)
	c.mu.Unlock()

	return domain.ExistenceStats{
		CacheSize:   size,
		KnownAbsent: absent,
		Pending:     int(c.pending.Load()),
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Probes:      c.probes.Load(),
		ProbeErrors: c.probeErrors.Load(),
	}
}

// cached returns the known answer for key, evicting it when expired.
func (c *Checker) cached(key string) (exists, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, absent := c.absent[key]; absent {
		return false, true
	}

	e, found := c.entries[key]
	if !found {
		return false, false
	}
	if c.clock.Since(e.recordedAt) > c.ttl {
		delete(c.entries, key)
		return false, false
	}
	return e.exists, true
}

// epochLocked must be called with mu held.
func (c *Checker) epochLocked(key string) uint64 {
	return c.epoch + c.epochs[key]
}

// recordLocked must be called with mu held.
func (c *Checker) recordLocked(key string, exists bool) {
	c.entries[key] = entry{exists: exists, recordedAt: c.clock.Now()}
	if exists {
		delete(c.absent, key)
	} else {
		c.absent[key] = struct{}{}
	}

	if len(c.entries) > c.threshold {
		c.sweepLocked()
	}
}

// sweepLocked removes expired entries only. Fresh entries stay even above the threshold.
func (c *Checker) sweepLocked() {
	now := c.clock.Now()
	for k, e := range c.entries {
		if now.Sub(e.recordedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
}
