package gateway

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// queryCache is the shared response cache behind the gateway.
//
// Entries are keyed by operation name plus a canonical rendering of the
// keyed arguments. A generation counter makes resets race-free: a store
// carrying a stale generation is dropped, so results fetched before a reset
// can never repopulate the cache after it.
type queryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gen     uint64
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string][]byte)}
}

func (c *queryCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok
}

// store saves an entry fetched under generation gen. Entries always replace
// whatever was cached under the same key; there is no incremental merging.
func (c *queryCache) store(gen uint64, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries[key] = data
}

func (c *queryCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.gen++
}

func (c *queryCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey renders a stable key for a query. When the spec names explicit
// key arguments only those participate; otherwise all variables do.
func cacheKey(spec QuerySpec) string {
	args := spec.CacheKey
	if args == nil {
		args = spec.Variables
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(spec.Name)
	for _, name := range names {
		value, err := json.Marshal(args[name])
		if err != nil {
			value = []byte(fmt.Sprintf("%v", args[name]))
		}
		fmt.Fprintf(&b, "|%s=%s", name, value)
	}
	return b.String()
}
