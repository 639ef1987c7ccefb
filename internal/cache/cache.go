// Package cache holds the in-memory replica of the tracked program's
// account state: one cache per entity kind plus the shared clock, each
// under its own reader/writer lock. All caches share one consistency rule:
// an entry is only replaced by a strictly newer-slot observation, which
// makes upserts from the bootstrap loader and the streaming processor
// commutative regardless of arrival order.
package cache

import (
	"errors"
	"log"
	"sync"

	"solana-liquidator/internal/domain"
)

// ErrNotFound is returned when a requested entry is not cached.
var ErrNotFound = errors.New("not found")

// Cache aggregates the entity caches and the process-wide clock. It is
// shared by handle: constructed once at startup and passed into every
// component.
type Cache struct {
	Banks        *BanksCache
	Accounts     *AccountsCache
	Mints        *MintsCache
	Oracles      *OraclesCache
	LookupTables *LookupTablesCache

	clockMu sync.RWMutex
	clock   domain.Clock
}

// New creates a cache seeded with the initial clock. The logger receives
// warning-level events (health derivation failures); nil falls back to
// log.Default().
func New(clock domain.Clock, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{
		Banks:        newBanksCache(),
		Accounts:     newAccountsCache(logger),
		Mints:        newMintsCache(),
		Oracles:      newOraclesCache(),
		LookupTables: newLookupTablesCache(),
		clock:        clock,
	}
}

// UpdateClock replaces the cached clock if the incoming slot is newer.
// Older observations are dropped silently.
func (c *Cache) UpdateClock(clock domain.Clock) {
	c.clockMu.Lock()
	defer c.clockMu.Unlock()
	if clock.Slot <= c.clock.Slot {
		return
	}
	c.clock = clock
}

// Clock returns a copy of the cached clock.
func (c *Cache) Clock() domain.Clock {
	c.clockMu.RLock()
	defer c.clockMu.RUnlock()
	return c.clock
}

// Stats is a point-in-time size snapshot for the stats log and gauges.
type Stats struct {
	Slot         uint64
	Banks        int
	Accounts     int
	Mints        int
	Oracles      int
	LookupTables int
}

// Stats reports current cache sizes and the clock slot.
func (c *Cache) Stats() Stats {
	return Stats{
		Slot:         c.Clock().Slot,
		Banks:        c.Banks.Len(),
		Accounts:     c.Accounts.Len(),
		Mints:        c.Mints.Len(),
		Oracles:      c.Oracles.Len(),
		LookupTables: c.LookupTables.Len(),
	}
}
