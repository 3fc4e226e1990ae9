package ingest

import "sync"

// EquipmentCache remembers equipment ids by slug for the duration of
// one run. The cache key is the same slug the database enforces
// uniqueness on, so a hit is always the row an insert would have
// found. Workers share one cache; entries are only ever added.
type EquipmentCache struct {
	mu  sync.Mutex
	ids map[string]int64
}

func NewEquipmentCache() *EquipmentCache {
	return &EquipmentCache{ids: make(map[string]int64)}
}

func (c *EquipmentCache) Get(slug string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.ids[slug]
	return id, ok
}

func (c *EquipmentCache) Put(slug string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[slug] = id
}

func (c *EquipmentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}
