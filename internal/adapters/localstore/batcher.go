package localstore

import (
	"maps"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/shelf/internal/core/domain"
)

const (
	// DefaultBatchSize is the number of pending keys that triggers a flush if not specified.
	DefaultBatchSize = 32
	// DefaultFlushInterval is the flush interval if not specified.
	DefaultFlushInterval = 500 * time.Millisecond
)

// Batcher buffers key writes until a size limit or time limit is reached.
// Later writes to the same key replace earlier ones. It is thread-safe.
type Batcher struct {
	sizeLimit int
	interval  time.Duration
	onFlush   func(map[string]string)

	mu      sync.Mutex
	pending map[string]string
	ticker  clockwork.Ticker
	stopCh  chan struct{}
	closed  bool
}

// NewBatcher returns a Batcher that hands pending writes to onFlush.
// Call Close to stop the background ticker.
func NewBatcher(clock clockwork.Clock, sizeLimit int, interval time.Duration, onFlush func(map[string]string)) *Batcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultBatchSize
	}
	if interval <= 0 {
		interval = DefaultFlushInterval
	}

	b := &Batcher{
		sizeLimit: sizeLimit,
		interval:  interval,
		onFlush:   onFlush,
		pending:   make(map[string]string),
		stopCh:    make(chan struct{}),
	}

	b.ticker = clock.NewTicker(interval)
	go b.run()

	return b
}

// Put queues value under key. Reaching the size limit flushes synchronously.
func (b *Batcher) Put(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return domain.ErrBatcherClosed
	}

	b.pending[key] = value

	if len(b.pending) >= b.sizeLimit {
		b.flushLocked()
		b.ticker.Reset(b.interval)
	}
	return nil
}

// Drop discards a pending write of key, if any.
func (b *Batcher) Drop(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, key)
}

// Pending returns the number of keys waiting to be flushed.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush forces pending writes to be handed to the callback.
func (b *Batcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.flushLocked()
}

// Close stops the background flusher and performs a final flush.
func (b *Batcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	close(b.stopCh)
	b.flushLocked()
	return nil
}

func (b *Batcher) run() {
	for {
		select {
		case <-b.ticker.Chan():
			b.Flush()
		case <-b.stopCh:
			b.ticker.Stop()
			return
		}
	}
}

// flushLocked must be called with mu held.
func (b *Batcher) flushLocked() {
	if len(b.pending) == 0 {
		return
	}

	batch := maps.Clone(b.pending)
	clear(b.pending)

	if b.onFlush != nil {
		b.onFlush(batch)
	}
}
