package source

import (
	"context"
	"strings"

	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/zerr"
)

// Local loads records kept in the local persistent store.
type Local struct {
	store    ports.LocalStore
	prefixes []string
	log      ports.Logger
}

// NewLocal creates the local loader scanning keys with the given prefixes.
// No prefixes means domain.RecordKeyPrefix.
func NewLocal(store ports.LocalStore, prefixes []string, log ports.Logger) *Local {
	if len(prefixes) == 0 {
		prefixes = []string{domain.RecordKeyPrefix}
	}
	return &Local{store: store, prefixes: prefixes, log: log}
}

// ID returns domain.SourceLocal.
func (l *Local) ID() domain.SourceID {
	return domain.SourceLocal
}

// Load scans the store and returns the records matching category, in key order.
func (l *Local) Load(_ context.Context, category string) ([]domain.Record, error) {
	keys, err := l.store.Keys()
	if err != nil {
		return nil, zerr.Wrap(domain.ErrSourceFailed, err.Error())
	}

	var records []domain.Record
	for _, key := range keys {
		if !l.recognized(key) {
			continue
		}

		value, ok, err := l.store.Get(key)
		if err != nil {
			l.log.Warn("skipping unreadable local entry", "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}

		rec, err := domain.ParseRecord([]byte(value), idFromKey(key), domain.ProvenanceLocal)
		if err != nil {
			l.log.Warn("skipping corrupt local entry", "key", key, "error", err)
			continue
		}
		if domain.Matches(rec, category) {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (l *Local) recognized(key string) bool {
	for _, p := range l.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// idFromKey returns the last colon-separated segment of key.
func idFromKey(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}
