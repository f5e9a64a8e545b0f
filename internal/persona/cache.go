// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package persona

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     string
	fetchedAt time.Time
}

// ttlCache is a get-or-refresh cache for external lookups. Entries older than
// the ttl are reloaded through the loader; a loader error serves the caller's
// fallback without poisoning the cache.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func newTTLCache(ttl time.Duration, now func() time.Time) *ttlCache {
	if now == nil {
		now = time.Now
	}
	return &ttlCache{ttl: ttl, entries: make(map[string]cacheEntry), now: now}
}

// getOrRefresh returns the cached value for key when fresh, otherwise runs
// the loader and caches its result. On loader failure the fallback is
// returned and nothing is cached.
func (c *ttlCache) getOrRefresh(key string, loader func() (string, error), fallback string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		return e.value
	}

	value, err := loader()
	if err != nil {
		return fallback
	}
	c.entries[key] = cacheEntry{value: value, fetchedAt: c.now()}
	return value
}

func (c *ttlCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
