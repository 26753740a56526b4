package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Provenance identifies the data source a record was loaded from.
// It is kept for diagnostics only and never takes part in identity.
type Provenance string

const (
	// ProvenanceRemote marks records read from the remote content store.
	ProvenanceRemote Provenance = "remote"
	// ProvenanceLocal marks records read from the local persistent store.
	ProvenanceLocal Provenance = "local"
	// ProvenanceFallback marks records read from the optional object storage backend.
	ProvenanceFallback Provenance = "fallback"
)

// Record is a single loaded content item.
// Fields other than ID, Title, Type and Category are opaque and kept in Payload.
type Record struct {
	ID       string
	Title    string
	Type     string
	Category string
	Source   Provenance
	Payload  map[string]any
}

// ParseRecord decodes a JSON object into a Record.
// fallbackID is used when the object carries no "id" field, typically the storage key.
func ParseRecord(data []byte, fallbackID string, source Provenance) (Record, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return Record{}, zerr.With(zerr.Wrap(ErrRecordCorrupt, err.Error()), "id", fallbackID)
	}
	if payload == nil {
		return Record{}, zerr.With(zerr.Wrap(ErrRecordCorrupt, "record is not a JSON object"), "id", fallbackID)
	}

	rec := Record{
		ID:       stringField(payload, "id"),
		Title:    stringField(payload, "title"),
		Type:     stringField(payload, "type"),
		Category: stringField(payload, "category"),
		Source:   source,
		Payload:  payload,
	}
	if rec.ID == "" {
		rec.ID = fallbackID
	}
	return rec, nil
}

// stringField reads a top-level field as a string. Numeric identifiers are accepted
// because older uploads stored ids as timestamps.
func stringField(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// IdentityKey returns the key used to deduplicate records.
// The id wins, then the title, then a hash of the record's canonical JSON form.
func (r Record) IdentityKey() string {
	if r.ID != "" {
		return "id:" + r.ID
	}
	if r.Title != "" {
		return "title:" + r.Title
	}
	// encoding/json sorts map keys, which makes the serialization canonical.
	data, err := json.Marshal(r.Payload)
	if err != nil {
		data = []byte(r.Type + "\x00" + r.Category)
	}
	return "hash:" + strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Dedupe drops records whose identity key was already seen, keeping first-seen order.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		key := rec.IdentityKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}
