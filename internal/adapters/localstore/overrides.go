package localstore

import (
	"strings"

	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
)

const (
	markPresent = "present"
	markAbsent  = "absent"
)

// Overrides implements ports.OverrideStore on the local persistent store.
// Marks live under domain.OverrideKeyPrefix. Failures are logged, never returned.
type Overrides struct {
	store ports.LocalStore
	safe  *Safe
	log   ports.Logger
}

// NewOverrides creates an override store backed by store.
func NewOverrides(store ports.LocalStore, log ports.Logger) *Overrides {
	return &Overrides{
		store: store,
		safe:  NewSafe(store, log),
		log:   log,
	}
}

// Load returns every persisted mark keyed by path. Unrecognized values are skipped.
func (o *Overrides) Load() map[string]bool {
	marks := make(map[string]bool)
	for _, key := range o.keys() {
		value, ok := o.safe.GetItem(key)
		if !ok {
			continue
		}
		path := strings.TrimPrefix(key, domain.OverrideKeyPrefix)
		switch value {
		case markPresent:
			marks[path] = true
		case markAbsent:
			marks[path] = false
		default:
			o.log.Warn("skipping unknown existence mark", "path", path, "value", value)
		}
	}
	return marks
}

// Save persists a mark for path.
func (o *Overrides) Save(path string, exists bool) bool {
	value := markAbsent
	if exists {
		value = markPresent
	}
	return o.safe.SetItem(domain.OverrideKey(path), value)
}

// Clear removes every persisted mark.
func (o *Overrides) Clear() {
	for _, key := range o.keys() {
		o.safe.RemoveItem(key)
	}
}

func (o *Overrides) keys() []string {
	all, err := o.store.Keys()
	if err != nil {
		o.log.Warn("local store listing failed", "error", err)
		return nil
	}
	keys := all[:0:0]
	for _, key := range all {
		if strings.HasPrefix(key, domain.OverrideKeyPrefix) {
			keys = append(keys, key)
		}
	}
	return keys
}
