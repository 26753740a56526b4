// Package deletion removes records everywhere they are held and notifies interested parties.
package deletion

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/zerr"
)

// ListInvalidator drops cached file lists.
type ListInvalidator interface {
	Invalidate(category string)
}

// PendingWrites discards queued local writes that have not been flushed yet.
type PendingWrites interface {
	Drop(key string)
}

// Propagator deletes records from the remote store and the local store, then
// updates the caches that could still serve them.
type Propagator struct {
	store     ports.ContentStore
	tokens    ports.TokenProvider
	local     ports.LocalStore
	existence ports.ExistenceChecker
	lists     ListInvalidator
	log       ports.Logger
	clock     clockwork.Clock
	pending   PendingWrites

	mu          sync.RWMutex
	subscribers []func(domain.DeletionEvent)
}

// Option configures a Propagator.
type Option func(*Propagator)

// WithClock sets the clock used to timestamp events.
func WithClock(clock clockwork.Clock) Option {
	return func(p *Propagator) { p.clock = clock }
}

// WithPendingWrites makes deletions discard queued local writes of the record.
func WithPendingWrites(pending PendingWrites) Option {
	return func(p *Propagator) { p.pending = pending }
}

// New creates a Propagator.
func New(
	store ports.ContentStore,
	tokens ports.TokenProvider,
	local ports.LocalStore,
	existence ports.ExistenceChecker,
	lists ListInvalidator,
	log ports.Logger,
	opts ...Option,
) *Propagator {
	p := &Propagator{
		store:     store,
		tokens:    tokens,
		local:     local,
		existence: existence,
		lists:     lists,
		log:       log,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers fn to receive every DeletionEvent. Subscribers run synchronously
// on the deleting goroutine, in registration order.
func (p *Propagator) Subscribe(fn func(domain.DeletionEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

// Delete removes the record id of category.
//
// A record already missing remotely counts as deleted. Any other remote failure is
// returned, but the local copy is still removed and the file list invalidated.
func (p *Propagator) Delete(ctx context.Context, category, id string) error {
	category = strings.TrimSpace(category)
	id = strings.TrimSpace(id)
	if !domain.ValidName(category) || !domain.ValidName(id) {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidPath, "invalid record reference"), "category", category), "id", id)
	}

	path := domain.RecordPath(category, id)
	remoteErr := p.deleteRemote(ctx, path)
	localErr := p.deleteLocal(domain.RecordKey(category, id))

	if remoteErr == nil {
		p.existence.MarkAsNonExistent(path)
	}
	p.lists.Invalidate(category)

	p.publish(domain.DeletionEvent{
		Category:  category,
		ID:        id,
		Path:      path,
		RemoteErr: remoteErr,
		At:        p.clock.Now(),
	})

	return errors.Join(remoteErr, localErr)
}

func (p *Propagator) deleteRemote(ctx context.Context, path string) error {
	token, ok := p.tokens.CurrentToken()
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrNoCredential, "cannot delete remote record"), "path", path)
	}

	err := p.store.Delete(ctx, token, path)
	if errors.Is(err, domain.ErrNotFound) {
		p.log.Debug("record already absent remotely", "path", path)
		return nil
	}
	if err != nil {
		p.log.Warn("remote delete failed", "path", path, "error", err)
		return err
	}
	return nil
}

func (p *Propagator) deleteLocal(key string) error {
	if p.pending != nil {
		p.pending.Drop(key)
	}
	if err := p.local.Remove(key); err != nil {
		p.log.Warn("local delete failed", "key", key, "error", err)
		return zerr.With(zerr.Wrap(err, "failed to remove local record"), "key", key)
	}
	return nil
}

func (p *Propagator) publish(event domain.DeletionEvent) {
	p.mu.RLock()
	subscribers := p.subscribers
	p.mu.RUnlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
