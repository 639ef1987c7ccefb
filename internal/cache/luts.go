package cache

import (
	"sync"

	"solana-liquidator/internal/domain"
)

// LookupTablesCache holds the configured address lookup tables. Tables are
// refreshed wholesale, never merged per entry, so there is no slot
// comparison here.
type LookupTablesCache struct {
	mu   sync.RWMutex
	luts []domain.LookupTable
}

func newLookupTablesCache() *LookupTablesCache {
	return &LookupTablesCache{}
}

// ReplaceAll overwrites the cached table list.
func (c *LookupTablesCache) ReplaceAll(luts []domain.LookupTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.luts = append([]domain.LookupTable(nil), luts...)
}

// GetAll returns a copy of the cached table list.
func (c *LookupTablesCache) GetAll() []domain.LookupTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.LookupTable(nil), c.luts...)
}

// Len returns the number of cached tables.
func (c *LookupTablesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.luts)
}
