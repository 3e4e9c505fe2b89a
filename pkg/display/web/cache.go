package web

import "sync"

// cache is a small ring of recently broadcast frames keyed by hash.
// Repeated frames are sent to clients as an index into this ring
// instead of the full payload.
type cacheEntry struct {
	hash uint64
	data []byte
}

type cache struct {
	entries []cacheEntry
	idx     int
	sync.Mutex
}

func newCache(size int) *cache {
	return &cache{entries: make([]cacheEntry, size)}
}

// index returns the slot holding hash, or -1.
func (c *cache) index(hash uint64) int {
	for i, e := range c.entries {
		if e.hash == hash && len(e.data) > 0 {
			return i
		}
	}
	return -1
}

// add stores data in the next ring slot and returns the slot index.
func (c *cache) add(hash uint64, data []byte) int {
	i := c.idx
	c.entries[i] = cacheEntry{hash: hash, data: data}
	c.idx = (c.idx + 1) % len(c.entries)
	return i
}
