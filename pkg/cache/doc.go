// Package cache provides a generic, thread-safe LRU cache used to bound
// per-tenant state held in memory.
//
// When the cache reaches its configured capacity the least recently used
// entry is evicted. An optional eviction callback lets owners of native
// resources (connections, handles) release them exactly when their cache
// entry goes away:
//
//	c := cache.NewLRUCache[string, *Handle](100)
//	c.SetEvictCallback(func(key string, h *Handle) {
//		h.Release()
//	})
//
// Entries become "recently used" on Get and Put. All operations are O(1)
// and safe for concurrent use.
package cache
