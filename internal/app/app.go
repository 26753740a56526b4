// Package app implements the application layer for shelf.
package app

import (
	"context"
	"errors"

	"go.trai.ch/shelf/internal/adapters/token"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/shelf/internal/engine/deletion"
	"go.trai.ch/shelf/internal/engine/existence"
	"go.trai.ch/shelf/internal/engine/loader"
	"go.trai.ch/zerr"
)

// Flusher persists buffered local writes.
type Flusher interface {
	Flush()
	Close() error
}

// Stats combines the diagnostic counters of both caches.
type Stats struct {
	Environment domain.Environment
	Existence   domain.ExistenceStats
	Loader      domain.LoaderStats
	Token       token.Source
}

// App represents the main application logic.
type App struct {
	existence *existence.Checker
	loader    *loader.Loader
	deletion  *deletion.Propagator
	tokens    *token.Manager
	writes    Flusher
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new App instance.
func New(
	checker *existence.Checker,
	files *loader.Loader,
	propagator *deletion.Propagator,
	tokens *token.Manager,
	writes Flusher,
	tel ports.Telemetry,
	log ports.Logger,
) *App {
	a := &App{
		existence: checker,
		loader:    files,
		deletion:  propagator,
		tokens:    tokens,
		writes:    writes,
		telemetry: tel,
		logger:    log,
	}
	propagator.Subscribe(a.onDeleted)
	return a
}

// Exists reports whether path exists in the remote content store.
func (a *App) Exists(ctx context.Context, path string) bool {
	return a.existence.Exists(ctx, path)
}

// CheckMultiple checks several paths concurrently.
func (a *App) CheckMultiple(ctx context.Context, paths []string) map[string]bool {
	return a.existence.CheckMultiple(ctx, paths)
}

// LoadFileList returns the merged records of category.
// Records mirrored from the remote store are flushed to the local store before returning.
func (a *App) LoadFileList(ctx context.Context, category string) []domain.Record {
	records := a.loader.LoadFileList(ctx, category)
	a.writes.Flush()
	return records
}

// Delete removes a record from every store and invalidates the caches that held it.
func (a *App) Delete(ctx context.Context, category, id string) error {
	if err := a.deletion.Delete(ctx, category, id); err != nil {
		return zerr.Wrap(err, "delete failed")
	}
	return nil
}

// MarkAbsent records paths as absent without probing.
func (a *App) MarkAbsent(paths ...string) {
	for _, p := range paths {
		a.existence.MarkAsNonExistent(p)
	}
}

// MarkPresent records paths as present without probing.
func (a *App) MarkPresent(paths ...string) {
	for _, p := range paths {
		a.existence.MarkAsExistent(p)
	}
}

// ClearCache drops every cached existence result and file list.
func (a *App) ClearCache() {
	a.existence.ClearCache()
	a.loader.ClearCache()
}

// Stats returns the current diagnostic counters.
func (a *App) Stats() Stats {
	return Stats{
		Environment: a.loader.Environment(),
		Existence:   a.existence.Stats(),
		Loader:      a.loader.Stats(),
		Token:       a.tokens.Status(),
	}
}

// SetToken stores the remote credential.
func (a *App) SetToken(value string) error {
	if err := a.tokens.SetToken(value); err != nil {
		return zerr.Wrap(err, "failed to store token")
	}
	// Results observed without a credential may be stale now.
	a.ClearCache()
	return nil
}

// ClearToken removes the stored remote credential.
func (a *App) ClearToken() error {
	if err := a.tokens.ClearToken(); err != nil {
		return zerr.Wrap(err, "failed to clear token")
	}
	a.ClearCache()
	return nil
}

// TokenStatus reports where the current credential comes from.
func (a *App) TokenStatus() token.Source {
	return a.tokens.Status()
}

// Close flushes pending local writes and closes the telemetry session.
func (a *App) Close() error {
	return errors.Join(a.writes.Close(), a.telemetry.Close())
}

func (a *App) onDeleted(e domain.DeletionEvent) {
	if e.RemoteErr != nil {
		a.logger.Warn("record deleted locally only", "category", e.Category, "id", e.ID)
		return
	}
	a.logger.Info("record deleted", "category", e.Category, "id", e.ID)
}
