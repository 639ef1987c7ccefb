package cache

import (
	"sync"

	"solana-liquidator/internal/domain"
)

// OraclesCache holds the latest-known oracle state per address. Identities
// are inserted at bootstrap (with or without a decoded price); streamed
// price refreshes only touch already-known oracles.
type OraclesCache struct {
	mu      sync.RWMutex
	oracles map[domain.Address]domain.Oracle
}

func newOraclesCache() *OraclesCache {
	return &OraclesCache{oracles: make(map[domain.Address]domain.Oracle)}
}

// Upsert stores the oracle unless a same-or-newer-slot entry is already
// cached.
func (c *OraclesCache) Upsert(oracle domain.Oracle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.oracles[oracle.Address]; ok && existing.PriceSlot >= oracle.PriceSlot {
		return
	}
	c.oracles[oracle.Address] = oracle
}

// Get returns the cached oracle or ErrNotFound.
func (c *OraclesCache) Get(address domain.Address) (domain.Oracle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	oracle, ok := c.oracles[address]
	if !ok {
		return domain.Oracle{}, ErrNotFound
	}
	return oracle, nil
}

// Variant returns the declared variant of a known oracle. The second
// return value is false for unknown addresses; streamed updates for those
// are dropped by the processor.
func (c *OraclesCache) Variant(address domain.Address) (domain.OracleVariant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	oracle, ok := c.oracles[address]
	if !ok {
		return domain.OracleVariantNone, false
	}
	return oracle.Variant, true
}

// Addresses returns all cached oracle addresses.
func (c *OraclesCache) Addresses() []domain.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	addresses := make([]domain.Address, 0, len(c.oracles))
	for address := range c.oracles {
		addresses = append(addresses, address)
	}
	return addresses
}

// Len returns the number of cached oracles.
func (c *OraclesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.oracles)
}
