package board

import lru "github.com/hashicorp/golang-lru"

// RecordCache caches decoded messages, which are immutable once stored.
// Counter and friend-set cells are mutable and never cached. Entries are
// keyed by derived key, so one cache may be shared by boards on the same
// Persist but not by boards on differently prefixed ones.
type RecordCache interface {
	// Add adds a freshly-stored or freshly-loaded record to the cache.
	Add(key, value interface{})
	// Get retrieves the already-decoded record stored under the given key, if cached.
	Get(key interface{}) (value interface{}, ok bool)
}

// NewRecordCache creates a new LRU-based record cache of the given size.
func NewRecordCache(size int) RecordCache {
	cache, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}
	return cache
}
