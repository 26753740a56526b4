// Package source implements the per-source record loaders.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"strings"

	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Mirror receives copies of remotely loaded records for the local store.
type Mirror interface {
	Put(key, value string) error
}

// Remote loads records from the remote content store through the category index.
type Remote struct {
	store       ports.ContentStore
	tokens      ports.TokenProvider
	existence   ports.ExistenceChecker
	mirror      Mirror
	log         ports.Logger
	concurrency int
}

// NewRemote creates the remote loader. mirror may be nil.
func NewRemote(
	store ports.ContentStore,
	tokens ports.TokenProvider,
	existence ports.ExistenceChecker,
	mirror Mirror,
	log ports.Logger,
	concurrency int,
) *Remote {
	if concurrency <= 0 {
		concurrency = domain.DefaultMaxConcurrency
	}
	return &Remote{
		store:       store,
		tokens:      tokens,
		existence:   existence,
		mirror:      mirror,
		log:         log,
		concurrency: concurrency,
	}
}

// ID returns domain.SourceRemote.
func (r *Remote) ID() domain.SourceID {
	return domain.SourceRemote
}

type categoryIndex struct {
	Files []string `json:"files"`
}

// Load reads the category index and then every listed record, in index order.
// Missing or corrupt members are skipped.
func (r *Remote) Load(ctx context.Context, category string) ([]domain.Record, error) {
	if !domain.ValidName(category) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidPath, "invalid category"), "category", category)
	}

	token, ok := r.tokens.CurrentToken()
	if !ok {
		return nil, zerr.Wrap(domain.ErrSourceUnavailable, "no remote credential configured")
	}

	exists, err := r.existence.Lookup(ctx, domain.CategoryDir(category))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceFailed, err.Error()), "category", category)
	}
	if !exists {
		r.log.Debug("remote category absent", "category", category)
		return nil, nil
	}

	ids, err := r.readIndex(ctx, token, category)
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	slots := make([]*domain.Record, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			rec, ok := r.readRecord(gctx, token, category, id)
			if ok {
				slots[i] = &rec
			}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]domain.Record, 0, len(ids))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (r *Remote) readIndex(ctx context.Context, token, category string) ([]string, error) {
	data, err := r.store.Read(ctx, token, domain.IndexPath(category))
	if errors.Is(err, domain.ErrNotFound) {
		r.log.Debug("remote category has no index", "category", category)
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceFailed, err.Error()), "category", category)
	}

	var index categoryIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrIndexCorrupt, err.Error()), "category", category)
	}

	ids := make([]string, 0, len(index.Files))
	for _, f := range index.Files {
		id := strings.TrimSuffix(strings.TrimSpace(f), ".json")
		if !domain.ValidName(id) {
			r.log.Warn("skipping invalid index entry", "category", category, "entry", f)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Remote) readRecord(ctx context.Context, token, category, id string) (domain.Record, bool) {
	data, err := r.store.Read(ctx, token, domain.RecordPath(category, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.log.Warn("skipping missing record", "category", category, "id", id)
		} else {
			r.log.Warn("skipping unreadable record", "category", category, "id", id, "error", err)
		}
		return domain.Record{}, false
	}

	rec, err := domain.ParseRecord(data, id, domain.ProvenanceRemote)
	if err != nil {
		r.log.Warn("skipping corrupt record", "category", category, "id", id, "error", err)
		return domain.Record{}, false
	}

	// Records in a category folder belong to it even without a classification field.
	if rec.Type == "" && rec.Category == "" {
		rec.Category = category
		rec.Payload = maps.Clone(rec.Payload)
		rec.Payload["category"] = category
	}

	r.mirrorRecord(category, rec)
	return rec, true
}

func (r *Remote) mirrorRecord(category string, rec domain.Record) {
	if r.mirror == nil {
		return
	}
	data, err := json.Marshal(rec.Payload)
	if err != nil {
		return
	}
	if err := r.mirror.Put(domain.RecordKey(category, rec.ID), string(data)); err != nil {
		r.log.Debug("record not mirrored", "category", category, "id", rec.ID, "error", err)
	}
}
