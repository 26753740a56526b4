package domain

import "time"

const (
	// DefaultExistenceTTL is how long an existence result stays valid.
	DefaultExistenceTTL = 10 * time.Minute
	// DefaultEvictionThreshold is the cache size above which a write triggers an expiry sweep.
	// It is a trigger, not a hard limit.
	DefaultEvictionThreshold = 100
	// DefaultFileListTTL is how long a loaded category listing stays valid.
	DefaultFileListTTL = 30 * time.Second
	// DefaultMaxConcurrency bounds concurrent remote reads per operation.
	DefaultMaxConcurrency = 4
)

// ExistenceStats holds diagnostic counters of the existence cache.
type ExistenceStats struct {
	CacheSize   int
	KnownAbsent int
	Pending     int
	Hits        uint64
	Misses      uint64
	Probes      uint64
	ProbeErrors uint64
}

// LoaderStats holds diagnostic counters of the file-list cache.
type LoaderStats struct {
	CachedCategories int
	Pending          int
	Hits             uint64
	Misses           uint64
	SourceErrors     uint64
}
