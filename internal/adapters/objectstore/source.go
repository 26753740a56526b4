package objectstore

import (
	"context"
	"errors"
	"path"
	"strings"

	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Source implements ports.Source over an object storage bucket.
// Without a bucket it is the always-empty backend.
type Source struct {
	bucket      Bucket
	prefix      string
	log         ports.Logger
	concurrency int
}

// NewSource creates the object storage source from cfg.
// Disabled or incomplete configuration yields an always-empty source.
func NewSource(cfg domain.ObjectConfig, concurrency int, log ports.Logger) (*Source, error) {
	if !cfg.Enabled || cfg.Endpoint == "" || cfg.Bucket == "" {
		return NewSourceWithBucket(nil, "", concurrency, log), nil
	}
	bucket, err := NewMinioBucket(cfg)
	if err != nil {
		return nil, err
	}
	return NewSourceWithBucket(bucket, cfg.Prefix, concurrency, log), nil
}

// NewSourceWithBucket creates the source over an explicit bucket. A nil bucket is allowed.
func NewSourceWithBucket(bucket Bucket, prefix string, concurrency int, log ports.Logger) *Source {
	if concurrency <= 0 {
		concurrency = domain.DefaultMaxConcurrency
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Source{
		bucket:      bucket,
		prefix:      prefix,
		log:         log,
		concurrency: concurrency,
	}
}

// ID returns domain.SourceObject.
func (s *Source) ID() domain.SourceID {
	return domain.SourceObject
}

// Configured reports whether a bucket is attached.
func (s *Source) Configured() bool {
	return s.bucket != nil
}

// Load reads every JSON object below the category folder and keeps the matching records.
func (s *Source) Load(ctx context.Context, category string) ([]domain.Record, error) {
	if s.bucket == nil {
		return nil, nil
	}

	dir := s.prefix + domain.CategoryDir(category) + "/"
	keys, err := s.bucket.List(ctx, dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSourceFailed, err.Error()), "prefix", dir)
	}

	keys = recordKeys(keys)
	slots := make([]*domain.Record, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			rec, ok := s.read(gctx, key, category)
			if ok {
				slots[i] = &rec
			}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]domain.Record, 0, len(slots))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (s *Source) read(ctx context.Context, key, category string) (domain.Record, bool) {
	data, err := s.bucket.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Debug("object vanished before read", "key", key)
		} else {
			s.log.Warn("object read failed", "key", key, "error", err)
		}
		return domain.Record{}, false
	}

	id := strings.TrimSuffix(path.Base(key), ".json")
	rec, err := domain.ParseRecord(data, id, domain.ProvenanceFallback)
	if err != nil {
		s.log.Warn("skipping corrupt object", "key", key, "error", err)
		return domain.Record{}, false
	}
	if !domain.Matches(rec, category) {
		return domain.Record{}, false
	}
	return rec, true
}

// recordKeys keeps JSON objects other than the category index.
func recordKeys(keys []string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if !strings.HasSuffix(k, ".json") || path.Base(k) == domain.IndexFile {
			continue
		}
		out = append(out, k)
	}
	return out
}
